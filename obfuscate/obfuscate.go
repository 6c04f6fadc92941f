// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package obfuscate implements the reversible byte transform applied to a payload before it is Huffman coded.

With no key, every byte is shifted by a fixed offset modulo 256.  With a key, every byte is XORed with the key
repeated cyclically from its first byte.  Neither mode provides confidentiality.
*/
package obfuscate

// DefaultOffset is added to every byte in keyless mode.
const DefaultOffset = 0x55

// Cipher holds the parameters of one obfuscation.  The zero value is the keyless mode.
type Cipher struct {
	key []byte
}

// New returns a Cipher for key.  An empty or nil key selects the keyless mode.  The key is copied.
func New(key []byte) Cipher {
	if len(key) == 0 {
		return Cipher{}
	}
	return Cipher{key: append([]byte(nil), key...)}
}

// Keyed reports whether the Cipher uses the repeating-key XOR mode.
func (c Cipher) Keyed() bool {
	return len(c.key) > 0
}

// Encrypt returns a transformed copy of src.
func (c Cipher) Encrypt(src []byte) []byte {
	dst := make([]byte, len(src))
	if !c.Keyed() {
		for i, b := range src {
			dst[i] = b + DefaultOffset
		}
		return dst
	}
	c.xor(dst, src)
	return dst
}

// Decrypt returns a copy of src with Encrypt undone.
func (c Cipher) Decrypt(src []byte) []byte {
	dst := make([]byte, len(src))
	if !c.Keyed() {
		for i, b := range src {
			dst[i] = b - DefaultOffset
		}
		return dst
	}
	c.xor(dst, src)
	return dst
}

func (c Cipher) xor(dst, src []byte) {
	for i, b := range src {
		dst[i] = b ^ c.key[i%len(c.key)]
	}
}

func (c Cipher) String() string {
	if !c.Keyed() {
		return "offset(0x55)"
	}
	return "xor"
}
