package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePersonChange(t *testing.T) {
	msg := &IncomingMessage{
		Value: []byte(`{"action":"updated","person_id":42,"first_name":"Vladimir","last_name":"Lenin"}`),
	}

	require.NoError(t, msg.ParsePersonChange())
	require.NotNil(t, msg.PersonChange)
	assert.Equal(t, "updated", msg.PersonChange.Action)
	assert.Equal(t, int64(42), msg.PersonChange.PersonID)
	assert.True(t, msg.IsNameChange())
}

func TestParsePersonChange_Invalid(t *testing.T) {
	msg := &IncomingMessage{Value: []byte(`not json`)}
	assert.Error(t, msg.ParsePersonChange())
}

func TestIsNameChange(t *testing.T) {
	tests := []struct {
		name   string
		change *PersonChangeMessage
		want   bool
	}{
		{name: "unparsed", change: nil, want: false},
		{name: "created", change: &PersonChangeMessage{Action: "created", PersonID: 1}, want: true},
		{name: "updated", change: &PersonChangeMessage{Action: "updated", PersonID: 1}, want: true},
		{name: "deleted", change: &PersonChangeMessage{Action: "deleted", PersonID: 1}, want: false},
		{name: "missing id", change: &PersonChangeMessage{Action: "updated"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &IncomingMessage{PersonChange: tt.change}
			assert.Equal(t, tt.want, msg.IsNameChange())
		})
	}
}
