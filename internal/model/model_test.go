package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchState_Terminal(t *testing.T) {
	tests := []struct {
		state    DispatchState
		terminal bool
	}{
		{StateReceived, false},
		{StateTemplateResolved, false},
		{StateRendered, false},
		{StateSent, false},
		{StateRecorded, false},
		{StateCompleted, true},
		{StateFailed, true},
		{DispatchState("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.state.Terminal())
		})
	}
}

func TestResponseStatus_Valid(t *testing.T) {
	assert.True(t, ResponsePending.Valid())
	assert.True(t, ResponseCompleted.Valid())
	assert.True(t, ResponsePartial.Valid())
	assert.True(t, ResponseFailed.Valid())
	assert.False(t, ResponseStatus("pending").Valid()) // casing matters
	assert.False(t, ResponseStatus("").Valid())
}

func TestFormData_Value(t *testing.T) {
	t.Run("nil map stores empty object", func(t *testing.T) {
		var f FormData
		v, err := f.Value()
		assert.NoError(t, err)
		assert.Equal(t, []byte("{}"), v)
	})

	t.Run("empty map stores empty object", func(t *testing.T) {
		v, err := FormData{}.Value()
		assert.NoError(t, err)
		assert.Equal(t, []byte("{}"), v)
	})

	t.Run("populated map", func(t *testing.T) {
		v, err := FormData{"status": "ok"}.Value()
		assert.NoError(t, err)
		assert.JSONEq(t, `{"status":"ok"}`, string(v.([]byte)))
	})
}

func TestFormData_Scan(t *testing.T) {
	t.Run("bytes", func(t *testing.T) {
		var f FormData
		assert.NoError(t, f.Scan([]byte(`{"gst":"verified"}`)))
		assert.Equal(t, FormData{"gst": "verified"}, f)
	})

	t.Run("string", func(t *testing.T) {
		var f FormData
		assert.NoError(t, f.Scan(`{"gst":"verified"}`))
		assert.Equal(t, FormData{"gst": "verified"}, f)
	})

	t.Run("nil column", func(t *testing.T) {
		f := FormData{"stale": true}
		assert.NoError(t, f.Scan(nil))
		assert.Nil(t, f)
	})

	t.Run("unsupported type", func(t *testing.T) {
		var f FormData
		assert.Error(t, f.Scan(42))
	})
}

func TestVariableList_Value(t *testing.T) {
	t.Run("nil stores empty array", func(t *testing.T) {
		var v VariableList
		got, err := v.Value()
		assert.NoError(t, err)
		assert.Equal(t, []byte("[]"), got)
	})

	t.Run("names kept in order", func(t *testing.T) {
		got, err := VariableList{"vendor_name", "deadline"}.Value()
		assert.NoError(t, err)
		assert.Equal(t, `["vendor_name","deadline"]`, string(got.([]byte)))
	})
}

func TestVariableList_Scan(t *testing.T) {
	t.Run("bytes", func(t *testing.T) {
		var v VariableList
		assert.NoError(t, v.Scan([]byte(`["vendor_name"]`)))
		assert.Equal(t, VariableList{"vendor_name"}, v)
	})

	t.Run("empty column", func(t *testing.T) {
		var v VariableList
		assert.NoError(t, v.Scan([]byte{}))
		assert.Nil(t, v)
	})

	t.Run("unsupported type", func(t *testing.T) {
		var v VariableList
		assert.Error(t, v.Scan(3.14))
	})
}
