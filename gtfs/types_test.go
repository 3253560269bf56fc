package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeSeconds(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "midnight", in: "00:00:00", want: 0},
		{name: "morning", in: "08:30:15", want: 30615},
		{name: "end of day", in: "23:59:59", want: 86399},
		{name: "past midnight", in: "25:10:00", want: 90600},
		{name: "surrounding whitespace", in: " 07:00:00 ", want: 25200},
		{name: "missing seconds", in: "08:30", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "minutes out of range", in: "08:60:00", wantErr: true},
		{name: "seconds out of range", in: "08:00:61", wantErr: true},
		{name: "negative hours", in: "-1:00:00", wantErr: true},
		{name: "not a number", in: "ab:cd:ef", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeSeconds(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFeed_IsSpecialDate(t *testing.T) {
	f := NewFeed()
	f.SpecialDates["20260101"] = struct{}{}

	assert.True(t, f.IsSpecialDate("20260101"))
	assert.False(t, f.IsSpecialDate("20260102"))
}
