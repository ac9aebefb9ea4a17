package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUintListNilEncodesAsEmptyArray(t *testing.T) {
	var l UintList

	v, err := l.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(v.([]byte)))
}

func TestActionListScan(t *testing.T) {
	var l ActionList
	raw := []byte(`[{"type":"transaction","action":"inflow_payment","amount":40}]`)

	require.NoError(t, l.Scan(raw))
	require.Len(t, l, 1)
	assert.Equal(t, ActionTypeTransaction, l[0].Type)
	assert.Equal(t, InflowPayment, l[0].Action)
	assert.Equal(t, 40.0, l[0].Amount)
}
