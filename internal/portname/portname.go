// Package portname shortens LLDP remote port identifiers for display.
package portname

import (
	"regexp"
	"strings"
)

type rule struct {
	re    *regexp.Regexp
	label func(match []string) string
}

func group(i int) func([]string) string {
	return func(m []string) string { return m[i] }
}

// Order matters: the more specific vendor patterns must win over the generic ones.
var rules = []rule{
	// "GigabitEthernet1/0/48", "Gi1/0/48", "TenGigabitEthernet1/1/2" -> "48", "2"
	{
		regexp.MustCompile(`^(?i:GigabitEthernet|TenGigabitEthernet|FastEthernet|Gi|Te|Fa)\d+/\d+/(\d+)$`),
		group(1),
	},
	// "GigabitEthernet0/9" -> "9"
	{
		regexp.MustCompile(`^(?i:GigabitEthernet|TenGigabitEthernet|FastEthernet|Gi|Te|Fa)\d+/(\d+)$`),
		group(1),
	},
	// "Slot: 0 Port: 2 Gigabit - Level" -> "2"
	{
		regexp.MustCompile(`(?i)Slot:\s*\d+\s*Port:\s*(\d+)`),
		group(1),
	},
	// "SFP+1" -> "s1"
	{
		regexp.MustCompile(`(?i)SFP\+?(\d+)`),
		func(m []string) string { return "s" + m[1] },
	},
	// "swp12" (Cumulus/SONiC style) -> "12"
	{
		regexp.MustCompile(`^(?i:swp|Ethernet)(\d+)$`),
		group(1),
	},
	// "Port16", "Port: 16", "port 3" -> "16", "3"
	{
		regexp.MustCompile(`(?i)Port\s*:?\s*(\d+)`),
		group(1),
	},
}

// Normalize extracts a short, consistent label from an LLDP port id.
// Ids that match no known convention (MAC addresses, free text) are returned trimmed.
func Normalize(portID string) string {
	id := strings.TrimSpace(portID)
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(id); len(m) > 1 {
			return r.label(m)
		}
	}
	return id
}
