package asn1struct

import "github.com/dfi/dercert/der"

// DistributionPointName is RFC 5280 §4.2.1.13's DistributionPointName
// CHOICE: either a fullName (GeneralNames) or a nameRelativeToCRLIssuer
// (RelativeDistinguishedName). Only fullName is decoded and encoded: a
// nameRelativeToCRLIssuer decodes to an empty DistributionPointName with
// RelativeRDN nil, and Encode does not write RelativeRDN.
type DistributionPointName struct {
	FullName    []GeneralName
	RelativeRDN *RDN
}

// DistributionPoint is RFC 5280 §4.2.1.13.
type DistributionPoint struct {
	DistributionPoint *DistributionPointName
	Reasons           *ReasonFlags
	CRLIssuer         []GeneralName
}

func decodeReasonFlags(content []byte) (ReasonFlags, error) {
	bs, err := der.DecodeBitString(content)
	if err != nil {
		return ReasonFlags{}, err
	}
	return ReasonFlags{
		KeyCompromise:        bs.BitAt(1),
		CACompromise:         bs.BitAt(2),
		AffiliationChanged:   bs.BitAt(3),
		Superseded:           bs.BitAt(4),
		CessationOfOperation: bs.BitAt(5),
		CertificateHold:      bs.BitAt(6),
		PrivilegeWithdrawn:   bs.BitAt(7),
		AACompromise:         bs.BitAt(8),
	}, nil
}

func decodeGeneralNames(content []byte) ([]GeneralName, error) {
	var out []GeneralName
	for len(content) > 0 {
		tlv, err := der.ReadTLV(content)
		if err != nil {
			return nil, err
		}
		gn, err := decodeGeneralNameTLV(tlv)
		if err != nil {
			return nil, err
		}
		out = append(out, gn)
		content = tlv.Rest
	}
	return out, nil
}

// DecodeDistributionPoint decodes one DistributionPoint SEQUENCE's content.
func DecodeDistributionPoint(content []byte) (DistributionPoint, error) {
	var dp DistributionPoint
	rest := content
	for len(rest) > 0 {
		field, err := der.ReadTLV(rest)
		if err != nil {
			return DistributionPoint{}, err
		}
		switch field.Header.Tag {
		case 0: // [0] EXPLICIT/IMPLICIT DistributionPointName (CHOICE, so explicit)
			inner, err := der.ReadTLV(field.Content)
			if err != nil {
				return DistributionPoint{}, err
			}
			dpn := &DistributionPointName{}
			switch inner.Header.Tag {
			case 0: // fullName [0] GeneralNames
				names, err := decodeGeneralNames(inner.Content)
				if err != nil {
					return DistributionPoint{}, err
				}
				dpn.FullName = names
			case 1:
				// nameRelativeToCRLIssuer [1] RDN: rarely produced in practice,
				// left as a documented limitation (RelativeRDN stays nil).
			}
			dp.DistributionPoint = dpn
		case 1: // [1] IMPLICIT ReasonFlags
			rf, err := decodeReasonFlags(field.Content)
			if err != nil {
				return DistributionPoint{}, err
			}
			dp.Reasons = &rf
		case 2: // [2] IMPLICIT GeneralNames (crlIssuer)
			names, err := decodeGeneralNames(field.Content)
			if err != nil {
				return DistributionPoint{}, err
			}
			dp.CRLIssuer = names
		}
		rest = field.Rest
	}
	return dp, nil
}

func encodeGeneralNames(names []GeneralName) ([]byte, error) {
	var content []byte
	for _, n := range names {
		enc, err := n.Encode()
		if err != nil {
			return nil, err
		}
		content = append(content, enc...)
	}
	return content, nil
}

// Encode serializes dp to one DistributionPoint SEQUENCE.
func (dp DistributionPoint) Encode() ([]byte, error) {
	var content []byte
	if dp.DistributionPoint != nil && len(dp.DistributionPoint.FullName) > 0 {
		names, err := encodeGeneralNames(dp.DistributionPoint.FullName)
		if err != nil {
			return nil, err
		}
		fullName := append(der.EncodeHeader(der.ClassContextSpecific, true, 0, len(names)), names...)
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 0, len(fullName))...)
		content = append(content, fullName...)
	}
	if dp.Reasons != nil {
		bits := []bool{false, dp.Reasons.KeyCompromise, dp.Reasons.CACompromise, dp.Reasons.AffiliationChanged,
			dp.Reasons.Superseded, dp.Reasons.CessationOfOperation, dp.Reasons.CertificateHold,
			dp.Reasons.PrivilegeWithdrawn, dp.Reasons.AACompromise}
		raw, unused := packNamedBits(bits)
		bsTLV, err := der.EncodeBitString(der.ClassContextSpecific, false, 1, false, der.BitString{Bytes: raw, UnusedBits: unused})
		if err != nil {
			return nil, err
		}
		content = append(content, bsTLV...)
	}
	if len(dp.CRLIssuer) > 0 {
		names, err := encodeGeneralNames(dp.CRLIssuer)
		if err != nil {
			return nil, err
		}
		content = append(content, der.EncodeHeader(der.ClassContextSpecific, true, 2, len(names))...)
		content = append(content, names...)
	}
	return append(der.EncodeHeader(der.ClassUniversal, true, der.TagSequence, len(content)), content...), nil
}

// packNamedBits packs a named-bit list (MSB-first, bit 0 = bits[0]) into the
// minimal BIT STRING byte form, trimming trailing unset bits per DER.
func packNamedBits(bits []bool) (raw []byte, unusedBits int) {
	highest := -1
	for i, b := range bits {
		if b {
			highest = i
		}
	}
	if highest < 0 {
		return nil, 0
	}
	nBytes := highest/8 + 1
	raw = make([]byte, nBytes)
	for i, b := range bits {
		if b {
			raw[i/8] |= 0x80 >> uint(i%8)
		}
	}
	return raw, 7 - highest%8
}
