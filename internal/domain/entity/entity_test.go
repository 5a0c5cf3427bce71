package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEligible_IgnoredAddressesAreSkipped(t *testing.T) {
	cases := []string{"127.0.0.1", "255.255.255.255", "0.0.0.0"}

	for _, value := range cases {
		e := Entity{Value: value, Type: EntityTypeIPv4}
		assert.False(t, e.IsEligible(), value)
	}
}

func TestIsEligible_PrivateIPIsSkipped(t *testing.T) {
	e := Entity{Value: "10.0.0.1", Type: EntityTypeIPv4, IsPrivateIP: true}
	assert.False(t, e.IsEligible())
}

func TestIsEligible_PublicIPIsLookedUp(t *testing.T) {
	e := Entity{Value: "8.8.8.8", Type: EntityTypeIPv4}
	assert.True(t, e.IsEligible())
}

func TestIsValid_RejectsUnknownType(t *testing.T) {
	cases := []Entity{
		{Value: "", Type: EntityTypeIPv4},
		{Value: "8.8.8.8", Type: "domain"},
		{Value: "8.8.8.8", Type: ""},
	}

	for _, c := range cases {
		assert.False(t, c.IsValid())
	}
	assert.True(t, Entity{Value: "8.8.8.8", Type: EntityTypeIPv4}.IsValid())
}

func TestParseEntity_ClassifiesValues(t *testing.T) {
	cases := []struct {
		input   string
		want    EntityType
		value   string
		private bool
	}{
		{"8.8.8.8", EntityTypeIPv4, "8.8.8.8", false},
		{" 192.168.1.10 ", EntityTypeIPv4, "192.168.1.10", true},
		{"2001:4860:4860::8888", EntityTypeIPv6, "2001:4860:4860::8888", false},
		{"::1", EntityTypeIPv6, "::1", true},
		{"8.8.8.0/24", EntityTypeIPv4CIDR, "8.8.8.0/24", false},
		{"10.0.0.0/8", EntityTypeIPv4CIDR, "10.0.0.0/8", true},
		{"::ffff:8.8.4.4", EntityTypeIPv4, "8.8.4.4", false},
	}

	for _, c := range cases {
		e, err := ParseEntity(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, e.Type, c.input)
		assert.Equal(t, c.value, e.Value, c.input)
		assert.Equal(t, c.private, e.IsPrivateIP, c.input)
	}
}

func TestParseEntity_RejectsInvalidValues(t *testing.T) {
	cases := []string{"", "not-an-ip", "8.8.8.0/33", "2001:db8::/32"}

	for _, c := range cases {
		_, err := ParseEntity(c)
		assert.Error(t, err, c)
	}
}
