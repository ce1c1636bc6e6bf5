package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/ibmi-toolkit/ibmtime"
)

func runOut(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return out.String(), err
}

func TestDateDecode(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"date", "decode", "20230615"}, "2023-06-15 00:00:00\n"},
		{[]string{"date", "decode", "20230615", "930", "4"}, "2023-06-15 09:30:00\n"},
		{[]string{"date", "decode", "20230615", "93045", "6"}, "2023-06-15 09:30:45\n"},
		{[]string{"date", "decode", "0"}, "absent\n"},
		{[]string{"date", "decode", "20230230"}, "absent\n"},
	}
	for _, tc := range cases {
		got, err := runOut(t, tc.args...)
		require.NoError(t, err, "%v", tc.args)
		assert.Equal(t, tc.want, got, "%v", tc.args)
	}
}

func TestDateEncode(t *testing.T) {
	got, err := runOut(t, "date", "encode", "2023-06-15T09:30:45", "6")
	require.NoError(t, err)
	assert.Equal(t, "20230615 93045\n", got)

	got, err = runOut(t, "date", "encode", "2023-06-15 09:30:45", "4")
	require.NoError(t, err)
	assert.Equal(t, "20230615 930\n", got)

	got, err = runOut(t, "date", "encode", "2023-06-15")
	require.NoError(t, err)
	assert.Equal(t, "20230615\n", got)
}

func TestDate_BadWidth(t *testing.T) {
	_, err := runOut(t, "date", "decode", "20230615", "930", "5")
	assert.ErrorIs(t, err, ibmtime.ErrUnsupportedWidth)

	_, err = runOut(t, "date", "encode", "2023-06-15", "8")
	assert.ErrorIs(t, err, ibmtime.ErrUnsupportedWidth)
}

func TestDate_BadInput(t *testing.T) {
	_, err := runOut(t, "date", "decode", "june")
	assert.Error(t, err)

	_, err = runOut(t, "date", "encode", "yesterday")
	assert.Error(t, err)

	_, err = runOut(t, "date", "shift", "1")
	assert.Error(t, err)
}

func TestRun_Usage(t *testing.T) {
	out, err := runOut(t)
	assert.Error(t, err)
	assert.Contains(t, out, "Usage: ibmi")

	out, err = runOut(t, "query")
	assert.Error(t, err)
	assert.Contains(t, out, "Usage: ibmi")
}
