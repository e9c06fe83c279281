package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"log"
	"math/rand"
)

// URL'de sorun çıkarmayan, karıştırılması kolay karakterler (0/O, 1/l yok).
const keyAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var keyRand = seedRand()

func seedRand() *rand.Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		log.Panic(err)
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

// GenerateKey public paylaşım linkleri için n karakterlik rastgele anahtar üretir.
func GenerateKey(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = keyAlphabet[keyRand.Intn(len(keyAlphabet))]
	}
	return string(b)
}
