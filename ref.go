package data3d

import (
	"crypto/rand"
	"io"
)

// NodeIDLength is the length of a generated node ID.
const NodeIDLength = 12

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateNodeID returns a random string of NodeIDLength uppercase letters
// and digits.
func GenerateNodeID() string {
	var id [NodeIDLength]byte
	var buf [NodeIDLength * 2]byte
	n := 0
	for n < len(id) {
		if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
			panic(err)
		}
		for _, b := range buf {
			// Reject the tail of the byte range so that every character is
			// equally likely.
			if int(b) >= len(idAlphabet)*(256/len(idAlphabet)) {
				continue
			}
			id[n] = idAlphabet[int(b)%len(idAlphabet)]
			if n++; n == len(id) {
				break
			}
		}
	}
	return string(id[:])
}

// IDs is a set of node IDs in use within a document.
type IDs map[string]Ref

// Claim marks id as used by ref. If id is empty, or already used by another
// node, a new ID is generated until it is unique, and returned. Otherwise id
// is returned.
func (ids IDs) Claim(id string, ref Ref) string {
	if r, ok := ids[id]; id == "" || ok && r != ref {
		for {
			id = GenerateNodeID()
			if _, ok := ids[id]; !ok {
				break
			}
		}
	}
	ids[id] = ref
	return id
}
