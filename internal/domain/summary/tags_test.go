package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
)

func TestPortTags_EmptySet(t *testing.T) {
	assert.Equal(t, []string{"No Open Ports"}, PortTags(nil))
	assert.Equal(t, []string{"No Open Ports"}, PortTags([]int{}))
}

func TestPortTags_SmallSetIsSortedAscending(t *testing.T) {
	assert.Equal(t, []string{"Ports: 22, 80, 443"}, PortTags([]int{443, 80, 22}))
}

func TestPortTags_TenPortsStayInOneTag(t *testing.T) {
	ports := []int{9000, 8080, 443, 80, 53, 25, 22, 21, 3389, 5432}

	tags := PortTags(ports)

	assert.Equal(t, []string{"Ports: 21, 22, 25, 53, 80, 443, 3389, 5432, 8080, 9000"}, tags)
}

func TestPortTags_DoesNotMutateInput(t *testing.T) {
	ports := []int{443, 80, 22}

	PortTags(ports)

	assert.Equal(t, []int{443, 80, 22}, ports)
}

func TestPortTags_LargeSetSplitsReservedAndEphemeral(t *testing.T) {
	// Arrange
	ports := []int{700, 601, 600, 500, 443, 80, 25, 4, 3, 2, 1}
	for p := 2000; p < 2000+679; p++ {
		ports = append(ports, p)
	}

	// Act
	tags := PortTags(ports)

	// Assert
	assert.Equal(t, []string{
		"Reserved Ports: 1, 2, 3, 4, 25, 80, 443, 500, 600, 601, +1 more",
		"679 ephemeral ports",
	}, tags)
}

func TestPortTags_LargeSetWithoutReservedPorts(t *testing.T) {
	var ports []int
	for p := 8000; p < 8012; p++ {
		ports = append(ports, p)
	}

	assert.Equal(t, []string{"12 ephemeral ports"}, PortTags(ports))
}

func TestPortTags_LargeSetWithoutEphemeralPorts(t *testing.T) {
	ports := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 1024}

	assert.Equal(t, []string{"Reserved Ports: 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, +1 more"}, PortTags(ports))
}

func TestAPITags_CapsAtFive(t *testing.T) {
	tags := APITags([]string{"cloud", "cdn", "vpn", "tor", "proxy", "honeypot", "scanner"})

	assert.Equal(t, []string{"cloud", "cdn", "vpn", "tor", "proxy", "+2 more tags"}, tags)
}

func TestTags_CombinesPortsAPITagsAndVulnerabilities(t *testing.T) {
	// Arrange
	total := 7
	record := &entity.HostRecord{
		Ports:     []int{443, 53},
		Tags:      []string{"cloud"},
		TotalVuln: &total,
	}

	// Act
	tags := Tags(record)

	// Assert
	assert.Equal(t, []string{"Ports: 53, 443", "cloud", "Vulnerabilities: 7"}, tags)
}

func TestTags_NilRecordFallsBackToNoTags(t *testing.T) {
	assert.Equal(t, []string{"No Tags"}, Tags(nil))
}
