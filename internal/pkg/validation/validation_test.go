package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("0x8ba1f109551bD432803012645Ac136ddd64DBA72"))
	assert.True(t, IsValidAddress("brickblock:custody"))
	assert.False(t, IsValidAddress(""))
	assert.False(t, IsValidAddress("ab"))
	assert.False(t, IsValidAddress("has space"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("hunter2!pass"))
	assert.False(t, IsValidPassword("short1!"))
	assert.False(t, IsValidPassword("nodigits!!"))
	assert.False(t, IsValidPassword("nosymbol123"))
}

func TestIsValidMetadataURI(t *testing.T) {
	schemes := ParseSchemes("https://, ipfs://")
	assert.Equal(t, []string{"https://", "ipfs://"}, schemes)

	assert.True(t, IsValidMetadataURI("https://meta.brickblock.io/1.json", schemes))
	assert.True(t, IsValidMetadataURI("ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", schemes))
	assert.False(t, IsValidMetadataURI("", schemes))
	assert.False(t, IsValidMetadataURI("   ", schemes))
	assert.False(t, IsValidMetadataURI("http://meta.brickblock.io/1.json", schemes))
	assert.False(t, IsValidMetadataURI("ftp://x", schemes))
	assert.False(t, IsValidMetadataURI("https://", schemes))
}
