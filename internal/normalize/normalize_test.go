package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	require.Equal(t, "jane@example.com", Email("  Jane@Example.COM "))
	require.Equal(t, "", Email("   "))
}

func TestEmailKeyNilWhenAbsent(t *testing.T) {
	key := EmailKey(" Jane@Example.COM ")
	require.NotNil(t, key)
	require.Equal(t, "jane@example.com", *key)

	require.Nil(t, EmailKey(""))
	require.Nil(t, EmailKey("   "))
}

func TestPhoneStripsFormatting(t *testing.T) {
	phone := Phone(" +62 (812) 3456-789 ")
	require.NotNil(t, phone)
	require.Equal(t, "+628123456789", *phone)
}

func TestPhoneKeepsPlusOnlyAtStart(t *testing.T) {
	phone := Phone("0812+3456")
	require.NotNil(t, phone)
	require.Equal(t, "08123456", *phone)
}

func TestPhoneEmptyInputs(t *testing.T) {
	require.Nil(t, Phone(""))
	require.Nil(t, Phone("   "))
	require.Nil(t, Phone("ext."))
	require.Nil(t, Phone("+"))
}

func TestPhoneEqualAcrossFormattings(t *testing.T) {
	a := Phone("0812-3456-789")
	b := Phone("(0812) 3456 789")
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.Equal(t, *a, *b)
}
