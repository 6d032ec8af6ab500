package main

import "github.com/dfi/dercert/oids"

func dumpOIDs() ([]byte, error) {
	return oids.DumpYAML()
}
