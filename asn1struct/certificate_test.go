package asn1struct

import (
	"math/big"
	"testing"
	"time"

	"github.com/dfi/dercert/builder"
	"github.com/dfi/dercert/der"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bigIntComparer lets go-cmp compare *big.Int by value instead of panicking
// on its unexported fields.
var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

func TestCertificateRoundTrip(t *testing.T) {
	assert := assert.New(t)

	subject := Name{RDNs: []RDN{{Attributes: []AttributeTypeAndValue{
		atv(t, "2.5.4.3", der.KindUTF8String, "leaf.example.com"),
	}}}}
	issuer := Name{RDNs: []RDN{{Attributes: []AttributeTypeAndValue{
		atv(t, "2.5.4.3", der.KindUTF8String, "Example CA"),
	}}}}

	cert := Certificate{
		TBSCertificate: TBSCertificate{
			Version:      2,
			SerialNumber: big.NewInt(123456789),
			Signature:    sha1AlgID(t),
			Issuer:       issuer,
			Validity: Validity{
				NotBefore: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				NotAfter:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			Subject:              subject,
			SubjectPublicKeyInfo: rsaSPKI(t),
		},
		SignatureAlgorithm: sha1AlgID(t),
		SignatureValue:     der.BitString{Bytes: []byte{0x11, 0x22, 0x33}, UnusedBits: 0},
	}

	encoded, err := cert.Encode()
	assert.NoError(err)

	decoded, err := builder.Parse(encoded, NewCertificateBuilder)
	assert.NoError(err)

	// cmp.Diff invokes Name's own Equal method for the Issuer/Subject
	// fields (canonical-encoding comparison) and bigIntComparer for
	// SerialNumber; reflect.DeepEqual would instead compare *big.Int's
	// unexported internals and could spuriously differ on slice capacity.
	if diff := cmp.Diff(cert.TBSCertificate, decoded.TBSCertificate, bigIntComparer); diff != "" {
		t.Errorf("TBSCertificate mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(cert.SignatureValue, decoded.SignatureValue)
	require.NotEmpty(t, decoded.RawTBSCertificate())
}
