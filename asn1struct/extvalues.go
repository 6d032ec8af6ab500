package asn1struct

import (
	"math/big"

	"github.com/dfi/dercert/der"
)

// DecodeBasicConstraint decodes the content of an id-ce-basicConstraints
// extension value. Both fields are DEFAULT and may be entirely absent.
func DecodeBasicConstraint(content []byte) (BasicConstraint, error) {
	tlv, err := der.ReadTLV(content)
	if err != nil {
		return BasicConstraint{}, err
	}
	var bc BasicConstraint
	rest := tlv.Content
	for len(rest) > 0 {
		field, err := der.ReadTLV(rest)
		if err != nil {
			return BasicConstraint{}, err
		}
		if field.Header.Tag == der.TagBoolean && field.Header.Class == der.ClassUniversal {
			bc.CA, err = der.DecodeBoolean(field.Content)
			if err != nil {
				return BasicConstraint{}, err
			}
		} else if field.Header.Tag == der.TagInteger && field.Header.Class == der.ClassUniversal {
			n, err := der.DecodeBigInt(field.Content)
			if err != nil {
				return BasicConstraint{}, err
			}
			bc.HasPathLen = true
			bc.PathLenConstraint = int(n.Int64())
		}
		rest = field.Rest
	}
	return bc, nil
}

// Encode serializes bc to the Extension.Value bytes of id-ce-basicConstraints.
// CA defaults to false and is suppressed when unset, per DER's DEFAULT-field
// suppression rule.
func (bc BasicConstraint) Encode() ([]byte, error) {
	var content []byte
	if bc.CA {
		content = append(content, der.EncodeBoolean(der.ClassUniversal, true)...)
	}
	if bc.HasPathLen {
		enc, err := der.EncodeBigInt(der.ClassUniversal, big.NewInt(int64(bc.PathLenConstraint)))
		if err != nil {
			return nil, err
		}
		content = append(content, enc...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// DecodeAuthorityKeyIdentifier decodes the content of an
// id-ce-authorityKeyIdentifier extension value.
func DecodeAuthorityKeyIdentifier(content []byte) (AuthorityKeyIdentifier, error) {
	tlv, err := der.ReadTLV(content)
	if err != nil {
		return AuthorityKeyIdentifier{}, err
	}
	var aki AuthorityKeyIdentifier
	rest := tlv.Content
	for len(rest) > 0 {
		field, err := der.ReadTLV(rest)
		if err != nil {
			return AuthorityKeyIdentifier{}, err
		}
		switch field.Header.Tag {
		case 0: // keyIdentifier [0] IMPLICIT OCTET STRING
			aki.KeyIdentifier = der.DecodeOctetString(field.Content)
		case 1: // authorityCertIssuer [1] IMPLICIT GeneralNames
			names, err := decodeGeneralNames(field.Content)
			if err != nil {
				return AuthorityKeyIdentifier{}, err
			}
			aki.AuthorityCertIssuer = names
		case 2: // authorityCertSerialNumber [2] IMPLICIT INTEGER
			n, err := der.DecodeInteger(field.Content)
			if err != nil {
				return AuthorityKeyIdentifier{}, err
			}
			aki.AuthorityCertSerial = n
			aki.HasSerial = true
		}
		rest = field.Rest
	}
	return aki, nil
}

// Encode serializes aki to the Extension.Value bytes of
// id-ce-authorityKeyIdentifier.
func (aki AuthorityKeyIdentifier) Encode() ([]byte, error) {
	var content []byte
	if aki.KeyIdentifier != nil {
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, false, 0, len(aki.KeyIdentifier))...)
		content = append(content, aki.KeyIdentifier...)
	}
	if len(aki.AuthorityCertIssuer) > 0 {
		names, err := encodeGeneralNames(aki.AuthorityCertIssuer)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 1, len(names))...)
		content = append(content, names...)
	}
	if aki.HasSerial {
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, false, 2, len(aki.AuthorityCertSerial))...)
		content = append(content, aki.AuthorityCertSerial...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

func decodeAccessDescriptions(content []byte) ([]AccessDescription, error) {
	var out []AccessDescription
	for len(content) > 0 {
		tlv, err := der.ReadTLV(content)
		if err != nil {
			return nil, err
		}
		methodTLV, err := der.ReadTLV(tlv.Content)
		if err != nil {
			return nil, err
		}
		method, err := der.DecodeOID(methodTLV.Content)
		if err != nil {
			return nil, err
		}
		locTLV, err := der.ReadTLV(methodTLV.Rest)
		if err != nil {
			return nil, err
		}
		loc, err := decodeGeneralNameTLV(locTLV)
		if err != nil {
			return nil, err
		}
		out = append(out, AccessDescription{AccessMethod: method, AccessLocation: loc})
		content = tlv.Rest
	}
	return out, nil
}

// DecodeAuthorityInfoAccess decodes the content of an
// id-pe-authorityInfoAccess (or id-pe-subjectInfoAccess) extension value:
// both share the AccessDescription SEQUENCE OF shape.
func DecodeAuthorityInfoAccess(content []byte) ([]AccessDescription, error) {
	tlv, err := der.ReadTLV(content)
	if err != nil {
		return nil, err
	}
	return decodeAccessDescriptions(tlv.Content)
}

// EncodeAuthorityInfoAccess serializes ads to the Extension.Value bytes of
// id-pe-authorityInfoAccess / id-pe-subjectInfoAccess.
func EncodeAuthorityInfoAccess(ads []AccessDescription) ([]byte, error) {
	var content []byte
	for _, ad := range ads {
		methodTLV, err := der.EncodeOID(der.ClassUniversal, der.TagOID, ad.AccessMethod)
		if err != nil {
			return nil, err
		}
		locTLV, err := ad.AccessLocation.Encode()
		if err != nil {
			return nil, err
		}
		inner := append(methodTLV, locTLV...)
		content = append(content, append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(inner)), inner...)...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// PolicyConstraints is RFC 5280 §4.2.1.11.
type PolicyConstraints struct {
	RequireExplicitPolicy int
	HasRequire            bool
	InhibitPolicyMapping  int
	HasInhibit            bool
}

// DecodePolicyConstraints decodes the content of an id-ce-policyConstraints
// extension value.
func DecodePolicyConstraints(content []byte) (PolicyConstraints, error) {
	tlv, err := der.ReadTLV(content)
	if err != nil {
		return PolicyConstraints{}, err
	}
	var pc PolicyConstraints
	rest := tlv.Content
	for len(rest) > 0 {
		field, err := der.ReadTLV(rest)
		if err != nil {
			return PolicyConstraints{}, err
		}
		n, err := der.DecodeBigInt(field.Content)
		if err != nil {
			return PolicyConstraints{}, err
		}
		switch field.Header.Tag {
		case 0:
			pc.RequireExplicitPolicy, pc.HasRequire = int(n.Int64()), true
		case 1:
			pc.InhibitPolicyMapping, pc.HasInhibit = int(n.Int64()), true
		}
		rest = field.Rest
	}
	return pc, nil
}

// Encode serializes pc to the Extension.Value bytes of
// id-ce-policyConstraints.
func (pc PolicyConstraints) Encode() ([]byte, error) {
	var content []byte
	if pc.HasRequire {
		enc, err := encodeImplicitInteger(0, pc.RequireExplicitPolicy)
		if err != nil {
			return nil, err
		}
		content = append(content, enc...)
	}
	if pc.HasInhibit {
		enc, err := encodeImplicitInteger(1, pc.InhibitPolicyMapping)
		if err != nil {
			return nil, err
		}
		content = append(content, enc...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// encodeImplicitInteger encodes n as an INTEGER's content under a [tag]
// IMPLICIT context-specific primitive header, reusing EncodeBigInt's
// canonicalization by re-reading its universal-tagged TLV content.
func encodeImplicitInteger(tag int, n int) ([]byte, error) {
	universal, err := der.EncodeBigInt(der.ClassUniversal, big.NewInt(int64(n)))
	if err != nil {
		return nil, err
	}
	tlv, err := der.ReadTLV(universal)
	if err != nil {
		return nil, err
	}
	return append(der.EncodeHeader(der.ClassContextSpecific, false, tag, len(tlv.Content)), tlv.Content...), nil
}

// PolicyQualifierInfo is RFC 5280 §4.2.1.4's PolicyQualifierInfo: a
// qualifier OID plus its raw qualifier TLV (cpsUri/userNotice are left
// undecoded, same RawData escape hatch AlgorithmIdentifier parameters use).
type PolicyQualifierInfo struct {
	PolicyQualifierID der.OID
	Qualifier         []byte
}

// PolicyInformation is RFC 5280 §4.2.1.4's PolicyInformation.
type PolicyInformation struct {
	PolicyIdentifier der.OID
	Qualifiers       []PolicyQualifierInfo
}

func decodePolicyQualifiers(content []byte) ([]PolicyQualifierInfo, error) {
	var out []PolicyQualifierInfo
	for len(content) > 0 {
		tlv, err := der.ReadTLV(content)
		if err != nil {
			return nil, err
		}
		idTLV, err := der.ReadTLV(tlv.Content)
		if err != nil {
			return nil, err
		}
		id, err := der.DecodeOID(idTLV.Content)
		if err != nil {
			return nil, err
		}
		out = append(out, PolicyQualifierInfo{PolicyQualifierID: id, Qualifier: idTLV.Rest})
		content = tlv.Rest
	}
	return out, nil
}

// DecodeCertificatePolicies decodes the content of an
// id-ce-certificatePolicies extension value.
func DecodeCertificatePolicies(content []byte) ([]PolicyInformation, error) {
	tlv, err := der.ReadTLV(content)
	if err != nil {
		return nil, err
	}
	var out []PolicyInformation
	rest := tlv.Content
	for len(rest) > 0 {
		field, err := der.ReadTLV(rest)
		if err != nil {
			return nil, err
		}
		idTLV, err := der.ReadTLV(field.Content)
		if err != nil {
			return nil, err
		}
		id, err := der.DecodeOID(idTLV.Content)
		if err != nil {
			return nil, err
		}
		quals, err := decodePolicyQualifiers(idTLV.Rest)
		if err != nil {
			return nil, err
		}
		out = append(out, PolicyInformation{PolicyIdentifier: id, Qualifiers: quals})
		rest = field.Rest
	}
	return out, nil
}

// EncodeCertificatePolicies serializes pis to the Extension.Value bytes of
// id-ce-certificatePolicies.
func EncodeCertificatePolicies(pis []PolicyInformation) ([]byte, error) {
	var content []byte
	for _, pi := range pis {
		idTLV, err := der.EncodeOID(der.ClassUniversal, der.TagOID, pi.PolicyIdentifier)
		if err != nil {
			return nil, err
		}
		inner := idTLV
		for _, q := range pi.Qualifiers {
			qidTLV, err := der.EncodeOID(der.ClassUniversal, der.TagOID, q.PolicyQualifierID)
			if err != nil {
				return nil, err
			}
			qualSeq := append(qidTLV, q.Qualifier...)
			inner = append(inner, append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(qualSeq)), qualSeq...)...)
		}
		content = append(content, append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(inner)), inner...)...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// PolicyMapping is one member of RFC 5280 §4.2.1.5's PolicyMappings.
type PolicyMapping struct {
	IssuerDomainPolicy  der.OID
	SubjectDomainPolicy der.OID
}

// DecodePolicyMappings decodes the content of an id-ce-policyMappings
// extension value.
func DecodePolicyMappings(content []byte) ([]PolicyMapping, error) {
	tlv, err := der.ReadTLV(content)
	if err != nil {
		return nil, err
	}
	var out []PolicyMapping
	rest := tlv.Content
	for len(rest) > 0 {
		field, err := der.ReadTLV(rest)
		if err != nil {
			return nil, err
		}
		issuerTLV, err := der.ReadTLV(field.Content)
		if err != nil {
			return nil, err
		}
		issuer, err := der.DecodeOID(issuerTLV.Content)
		if err != nil {
			return nil, err
		}
		subjectTLV, err := der.ReadTLV(issuerTLV.Rest)
		if err != nil {
			return nil, err
		}
		subject, err := der.DecodeOID(subjectTLV.Content)
		if err != nil {
			return nil, err
		}
		out = append(out, PolicyMapping{IssuerDomainPolicy: issuer, SubjectDomainPolicy: subject})
		rest = field.Rest
	}
	return out, nil
}

// EncodePolicyMappings serializes ms to the Extension.Value bytes of
// id-ce-policyMappings.
func EncodePolicyMappings(ms []PolicyMapping) ([]byte, error) {
	var content []byte
	for _, m := range ms {
		issuerTLV, err := der.EncodeOID(der.ClassUniversal, der.TagOID, m.IssuerDomainPolicy)
		if err != nil {
			return nil, err
		}
		subjectTLV, err := der.EncodeOID(der.ClassUniversal, der.TagOID, m.SubjectDomainPolicy)
		if err != nil {
			return nil, err
		}
		inner := append(issuerTLV, subjectTLV...)
		content = append(content, append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(inner)), inner...)...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}
