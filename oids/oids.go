// Package oids is a static named-OID registry: a lookup from the well-known
// OID names used across RFC 5280/5912/6960/2986
// (signature algorithms, extension identifiers, attribute types, key
// purposes) to their der.OID value and back.
package oids

import "github.com/dfi/dercert/der"

var byName = map[string]der.OID{
	// Signature / digest algorithms (RFC 5912, RFC 8017)
	"sha256WithRSAEncryption": {1, 2, 840, 113549, 1, 1, 11},
	"sha384WithRSAEncryption": {1, 2, 840, 113549, 1, 1, 12},
	"sha512WithRSAEncryption": {1, 2, 840, 113549, 1, 1, 13},
	"rsaEncryption":           {1, 2, 840, 113549, 1, 1, 1},
	"id-RSASSA-PSS":           {1, 2, 840, 113549, 1, 1, 10},
	"id-RSAES-OAEP":           {1, 2, 840, 113549, 1, 1, 7},
	"ecdsa-with-SHA256":       {1, 2, 840, 10045, 4, 3, 2},
	"ecdsa-with-SHA384":       {1, 2, 840, 10045, 4, 3, 3},
	"id-ecPublicKey":          {1, 2, 840, 10045, 2, 1},
	"id-sha256":               {2, 16, 840, 1, 101, 3, 4, 2, 1},
	"id-sha384":               {2, 16, 840, 1, 101, 3, 4, 2, 2},
	"id-sha512":               {2, 16, 840, 1, 101, 3, 4, 2, 3},
	"dsa":                     {1, 2, 840, 10040, 4, 1},
	"dsa-with-sha256":         {2, 16, 840, 1, 101, 3, 4, 3, 2},

	// Name/attribute types (RFC 5280 §4.1.2.4, RFC 2986)
	"commonName":             {2, 5, 4, 3},
	"countryName":            {2, 5, 4, 6},
	"localityName":           {2, 5, 4, 7},
	"stateOrProvinceName":    {2, 5, 4, 8},
	"organizationName":       {2, 5, 4, 10},
	"organizationalUnitName": {2, 5, 4, 11},
	"serialNumber":           {2, 5, 4, 5},
	"emailAddress":           {1, 2, 840, 113549, 1, 9, 1},
	"domainComponent":        {0, 9, 2342, 19200300, 100, 1, 25},

	// PKCS#9 attribute types used inside CertificationRequestInfo (RFC 2986)
	"extensionRequest": {1, 2, 840, 113549, 1, 9, 14},
	"challengePassword": {1, 2, 840, 113549, 1, 9, 7},

	// Standard X.509v3 extensions (RFC 5280 §4.2)
	"id-ce-subjectKeyIdentifier":    {2, 5, 29, 14},
	"id-ce-keyUsage":                {2, 5, 29, 15},
	"id-ce-subjectAltName":          {2, 5, 29, 17},
	"id-ce-issuerAltName":           {2, 5, 29, 18},
	"id-ce-basicConstraints":        {2, 5, 29, 19},
	"id-ce-nameConstraints":         {2, 5, 29, 30},
	"id-ce-cRLDistributionPoints":   {2, 5, 29, 31},
	"id-ce-certificatePolicies":     {2, 5, 29, 32},
	"id-ce-policyMappings":          {2, 5, 29, 33},
	"id-ce-authorityKeyIdentifier":  {2, 5, 29, 35},
	"id-ce-policyConstraints":       {2, 5, 29, 36},
	"id-ce-extKeyUsage":             {2, 5, 29, 37},
	"id-ce-freshestCRL":             {2, 5, 29, 46},
	"id-ce-inhibitAnyPolicy":        {2, 5, 29, 54},
	"id-pe-authorityInfoAccess":     {1, 3, 6, 1, 5, 5, 7, 1, 1},
	"id-pe-subjectInfoAccess":       {1, 3, 6, 1, 5, 5, 7, 1, 11},
	"anyPolicy":                     {2, 5, 29, 32, 0},

	// Extended key purpose IDs (RFC 5280 §4.2.1.12)
	"id-kp-serverAuth":      {1, 3, 6, 1, 5, 5, 7, 3, 1},
	"id-kp-clientAuth":      {1, 3, 6, 1, 5, 5, 7, 3, 2},
	"id-kp-codeSigning":     {1, 3, 6, 1, 5, 5, 7, 3, 3},
	"id-kp-emailProtection": {1, 3, 6, 1, 5, 5, 7, 3, 4},
	"id-kp-timeStamping":    {1, 3, 6, 1, 5, 5, 7, 3, 8},
	"id-kp-OCSPSigning":     {1, 3, 6, 1, 5, 5, 7, 3, 9},

	// Access method IDs (RFC 5280 §4.2.2)
	"id-ad-ocsp":     {1, 3, 6, 1, 5, 5, 7, 48, 1},
	"id-ad-caIssuers": {1, 3, 6, 1, 5, 5, 7, 48, 2},

	// OCSP (RFC 6960)
	"id-pkix-ocsp-basic":    {1, 3, 6, 1, 5, 5, 7, 48, 1, 1},
	"id-pkix-ocsp-nonce":    {1, 3, 6, 1, 5, 5, 7, 48, 1, 2},
	"id-pkix-ocsp-response": {1, 3, 6, 1, 5, 5, 7, 48, 1, 4},

	// Attribute certificate holder/attribute OIDs (RFC 5755)
	"id-aca-authenticationInfo": {1, 3, 6, 1, 5, 5, 7, 10, 1},
	"id-aca-accessIdentity":     {1, 3, 6, 1, 5, 5, 7, 10, 2},
	"id-aca-chargingIdentity":   {1, 3, 6, 1, 5, 5, 7, 10, 3},
	"id-aca-group":              {1, 3, 6, 1, 5, 5, 7, 10, 4},
	"id-at-role":                {2, 5, 4, 72},
}

var byDotted = make(map[string]string, len(byName))

func init() {
	for name, oid := range byName {
		byDotted[oid.String()] = name
	}
}

// ByName looks up a well-known OID by its registry name (e.g.
// "sha256WithRSAEncryption"). ok is false for names not in the registry.
func ByName(name string) (der.OID, bool) {
	oid, ok := byName[name]
	return oid, ok
}

// Name looks up the registry name for oid, comparing by dotted-decimal
// form. ok is false for OIDs not in the registry.
func Name(oid der.OID) (string, bool) {
	name, ok := byDotted[oid.String()]
	return name, ok
}

// Names returns every registered name, for -dump-oids style tooling.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	return names
}
