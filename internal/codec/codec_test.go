package codec

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/payments-engine/internal/model"
	"github.com/rickgao/payments-engine/internal/money"
)

func decodeAll(t *testing.T, input string) ([]model.Event, *Decoder) {
	t.Helper()
	d := NewDecoder(strings.NewReader(input), nil)
	var events []model.Event
	for {
		e, err := d.Next()
		if err == io.EOF {
			return events, d
		}
		require.NoError(t, err)
		events = append(events, e)
	}
}

func TestDecoder_AllKinds(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, 1, 1, 1.0\n" +
		"withdrawal, 1, 2, 0.5\n" +
		"dispute, 1, 1,\n" +
		"resolve, 1, 1,\n" +
		"chargeback, 1, 1,\n"

	events, d := decodeAll(t, input)
	require.Len(t, events, 5)
	assert.Equal(t, int64(0), d.Skipped())

	dep := events[0].(model.Deposit)
	assert.Equal(t, model.AccountID(1), dep.Client)
	assert.Equal(t, model.TxID(1), dep.Tx)
	assert.Equal(t, "1.0000", dep.Amount.String())

	wd := events[1].(model.Withdrawal)
	assert.Equal(t, "0.5000", wd.Amount.String())

	assert.Equal(t, model.Dispute{Client: 1, Tx: 1}, events[2])
	assert.Equal(t, model.Resolve{Client: 1, Tx: 1}, events[3])
	assert.Equal(t, model.Chargeback{Client: 1, Tx: 1}, events[4])
}

func TestDecoder_MissingAmountIsZero(t *testing.T) {
	events, _ := decodeAll(t, "type,client,tx,amount\ndeposit,1,1,\nwithdrawal,1,2\n")
	require.Len(t, events, 2)
	assert.True(t, events[0].(model.Deposit).Amount.IsZero())
	assert.True(t, events[1].(model.Withdrawal).Amount.IsZero())
}

func TestDecoder_AmountIgnoredOnDispute(t *testing.T) {
	events, _ := decodeAll(t, "type,client,tx,amount\ndispute,1,1,2.0\n")
	require.Len(t, events, 1)
	assert.Equal(t, model.Dispute{Client: 1, Tx: 1}, events[0])
}

func TestDecoder_SkipsMalformedRows(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"deposit,1,1,1.0\n" +
		"deposit,70000,3,1.0\n" + // client overflows u16
		"deposit,1,-4,1.0\n" + // negative tx
		"deposit,1,5,abc\n" + // bad amount
		"deposit,2,6,2.5\n"

	events, d := decodeAll(t, input)
	require.Len(t, events, 2)
	assert.Equal(t, int64(3), d.Skipped())
	assert.Equal(t, model.AccountID(2), events[1].(model.Deposit).Client)
}

func TestDecoder_ColumnOrderFromHeader(t *testing.T) {
	events, _ := decodeAll(t, "amount,tx,client,type\n3.25,9,4,deposit\n")
	require.Len(t, events, 1)
	dep := events[0].(model.Deposit)
	assert.Equal(t, model.AccountID(4), dep.Client)
	assert.Equal(t, model.TxID(9), dep.Tx)
	assert.Equal(t, "3.2500", dep.Amount.String())
}

func TestDecoder_MissingColumn(t *testing.T) {
	d := NewDecoder(strings.NewReader("type,client,amount\ndeposit,1,1.0\n"), nil)
	_, err := d.Next()
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestDecoder_EmptyInput(t *testing.T) {
	d := NewDecoder(strings.NewReader(""), nil)
	_, err := d.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDecodeEvent_CaseInsensitiveType(t *testing.T) {
	e, err := DecodeEvent("DEPOSIT", 1, 2, "1")
	require.NoError(t, err)
	assert.IsType(t, model.Deposit{}, e)

	e, err = DecodeEvent("refund", 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, model.Unrecognized{Type: "refund", Client: 1, Tx: 2}, e)
}

func TestDecoder_UnknownTypeIsPassedOn(t *testing.T) {
	events, d := decodeAll(t, "type,client,tx,amount\ntransfer,1,2,1.0\ndeposit,1,3,1.0\n")
	require.Len(t, events, 2)
	assert.Equal(t, model.Unrecognized{Type: "transfer", Client: 1, Tx: 2}, events[0])
	assert.Equal(t, int64(0), d.Skipped())
}

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	require.NoError(t, enc.Encode(model.Snapshot{
		Client:    1,
		Available: money.MustAmount("10"),
		Held:      money.MustAmount("2"),
		Total:     money.MustAmount("12"),
	}))
	require.NoError(t, enc.Encode(model.Snapshot{Client: 2, Locked: true}))
	require.NoError(t, enc.Flush())

	assert.Equal(t,
		"client,available,held,total,locked\n"+
			"1,10.0000,2.0000,12.0000,false\n"+
			"2,0.0000,0.0000,0.0000,true\n",
		buf.String())
}

func TestEncoder_HeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Flush())
	assert.Equal(t, "client,available,held,total,locked\n", buf.String())
}
