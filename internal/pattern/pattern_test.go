package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{
			name: "client payload with metadata",
			raw:  `[{"key":"a","note":"C","time":0},{"key":"s","note":"E","time":210.5},{"key":"d","note":"G","time":430}]`,
			want: "CEG",
		},
		{
			name: "notes only",
			raw:  `[{"note":"C#"},{"note":"D"}]`,
			want: "C#D",
		},
		{
			name:    "empty payload",
			raw:     "",
			wantErr: ErrEmpty,
		},
		{
			name:    "whitespace payload",
			raw:     "   ",
			wantErr: ErrEmpty,
		},
		{
			name:    "not json",
			raw:     "not-a-pattern",
			wantErr: ErrMalformed,
		},
		{
			name:    "wrong shape",
			raw:     `{"note":"C"}`,
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Parse([]byte(tt.raw))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Canonical())
		})
	}
}

func TestCanonical_Deterministic(t *testing.T) {
	t.Parallel()

	p := Pattern{{Note: "C", Time: 0}, {Note: "E", Time: 120}, {Note: "G", Time: 300}}
	first := p.Canonical()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.Canonical())
	}
}

func TestCanonical_OrderSignificant(t *testing.T) {
	t.Parallel()

	a := Pattern{{Note: "C"}, {Note: "E"}, {Note: "G"}}
	b := Pattern{{Note: "G"}, {Note: "E"}, {Note: "C"}}
	assert.NotEqual(t, a.Canonical(), b.Canonical())
}

func TestCanonical_TimingIgnored(t *testing.T) {
	t.Parallel()

	slow := Pattern{{Note: "C", Time: 0}, {Note: "E", Time: 900}}
	fast := Pattern{{Note: "C", Time: 0}, {Note: "E", Time: 90}}
	assert.Equal(t, slow.Canonical(), fast.Canonical())
}

func TestCanonical_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Pattern{}.Canonical())
	assert.Equal(t, "", Pattern(nil).Canonical())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		p        Pattern
		minNotes int
		wantErr  error
	}{
		{
			name:     "meets minimum",
			p:        Pattern{{Note: "C"}, {Note: "E"}, {Note: "G"}},
			minNotes: 3,
		},
		{
			name:     "empty",
			p:        Pattern{},
			minNotes: 3,
			wantErr:  ErrEmpty,
		},
		{
			name:     "too short",
			p:        Pattern{{Note: "C"}, {Note: "E"}},
			minNotes: 3,
			wantErr:  ErrTooShort,
		},
		{
			name:     "blank note symbol",
			p:        Pattern{{Note: "C"}, {Note: ""}, {Note: "G"}},
			minNotes: 3,
			wantErr:  ErrMalformed,
		},
		{
			name:     "zero minimum still rejects empty",
			p:        Pattern{},
			minNotes: 0,
			wantErr:  ErrEmpty,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.p.Validate(tt.minNotes)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
