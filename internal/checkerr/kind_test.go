package checkerr

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "target and cause",
			err:  New(KindNotFound, "example.invalid", errors.New("NXDOMAIN")),
			want: "domain not found for example.invalid: NXDOMAIN",
		},
		{
			name: "cause only",
			err:  New(KindNetwork, "", errors.New("connection refused")),
			want: "network failure: connection refused",
		},
		{
			name: "target only",
			err:  New(KindValidation, "bad host", nil),
			want: "validation failed for bad host",
		},
		{
			name: "bare",
			err:  New(KindUpstream, "", nil),
			want: "upstream error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestErrorIsSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(KindCertificate, "example.com", errors.New("self signed")))

	assert.ErrorIs(t, err, ErrCertificate)
	assert.NotErrorIs(t, err, ErrNetwork)
	assert.Equal(t, KindCertificate, KindOf(err))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("%w: empty", ErrValidation)))
	assert.Equal(t, KindUpstream, KindOf(errors.New("boom")))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantKind    Kind
		wantTimeout bool
	}{
		{
			name:     "dns not found",
			err:      &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true},
			wantKind: KindResolution,
		},
		{
			name:        "dns timeout",
			err:         &net.DNSError{Err: "i/o timeout", Name: "slow.example", IsTimeout: true},
			wantKind:    KindNetwork,
			wantTimeout: true,
		},
		{
			name:     "connection refused",
			err:      &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			wantKind: KindNetwork,
		},
		{
			name:        "deadline",
			err:         fmt.Errorf("dial: %w", context.DeadlineExceeded),
			wantKind:    KindNetwork,
			wantTimeout: true,
		},
		{
			name:     "unknown authority",
			err:      x509.UnknownAuthorityError{},
			wantKind: KindCertificate,
		},
		{
			name:     "unexpected",
			err:      errors.New("something odd"),
			wantKind: KindUpstream,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify("example.com", tc.err)

			var ce *Error
			require.ErrorAs(t, got, &ce)
			assert.Equal(t, tc.wantKind, ce.Kind)
			assert.Equal(t, tc.wantTimeout, IsTimeout(got))
			assert.ErrorIs(t, got, tc.err)
		})
	}
}

func TestClassifyKeepsExistingKind(t *testing.T) {
	original := New(KindNotFound, "gone.example", nil)

	assert.Same(t, original, Classify("gone.example", original))
	assert.NoError(t, Classify("example.com", nil))
}
