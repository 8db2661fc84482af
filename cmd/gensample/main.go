package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/sweets9/SOC-ThreatViz/internal/config"
	"github.com/sweets9/SOC-ThreatViz/internal/models"
	"github.com/sweets9/SOC-ThreatViz/internal/store"
	"github.com/sweets9/SOC-ThreatViz/internal/util"
)

// gensample fills a threat store with realistic demonstration data so the
// globe has something to show before real producers are hooked up.

type site struct {
	city    string
	country string
	lat     float64
	lon     float64
}

// monitored destination sites (major Australian cities)
var australianSites = []site{
	{"Sydney", "Australia", -33.8688, 151.2093},
	{"Melbourne", "Australia", -37.8136, 144.9631},
	{"Brisbane", "Australia", -27.4698, 153.0251},
	{"Perth", "Australia", -31.9505, 115.8605},
	{"Adelaide", "Australia", -34.9285, 138.6007},
	{"Canberra", "Australia", -35.2809, 149.1300},
	{"Hobart", "Australia", -42.8821, 147.3272},
	{"Darwin", "Australia", -12.4634, 130.8456},
}

// global threat origins
var threatSources = []site{
	{"Moscow", "Russia", 55.7558, 37.6173},
	{"St Petersburg", "Russia", 59.9311, 30.3609},
	{"Beijing", "China", 39.9042, 116.4074},
	{"Shanghai", "China", 31.2304, 121.4737},
	{"Shenzhen", "China", 22.5431, 114.0579},
	{"Tehran", "Iran", 35.6892, 51.3890},
	{"Pyongyang", "North Korea", 39.0392, 125.7625},
	{"Berlin", "Germany", 52.5200, 13.4050},
	{"London", "UK", 51.5074, -0.1278},
	{"Paris", "France", 48.8566, 2.3522},
	{"Amsterdam", "Netherlands", 52.3676, 4.9041},
	{"Bucharest", "Romania", 44.4268, 26.1025},
	{"Kiev", "Ukraine", 50.4501, 30.5234},
	{"New York", "USA", 40.7128, -74.0060},
	{"Los Angeles", "USA", 34.0522, -118.2437},
	{"Chicago", "USA", 41.8781, -87.6298},
	{"Toronto", "Canada", 43.6532, -79.3832},
	{"Sao Paulo", "Brazil", -23.5505, -46.6333},
	{"Singapore", "Singapore", 1.3521, 103.8198},
	{"Tokyo", "Japan", 35.6762, 139.6503},
	{"Seoul", "South Korea", 37.5665, 126.9780},
	{"Mumbai", "India", 19.0760, 72.8777},
	{"Hanoi", "Vietnam", 21.0278, 105.8342},
	{"Jakarta", "Indonesia", -6.2088, 106.8456},
	{"Hong Kong", "China", 22.3193, 114.1694},
	{"Dubai", "UAE", 25.2048, 55.2708},
	{"Istanbul", "Turkey", 41.0082, 28.9784},
	{"Lagos", "Nigeria", 6.5244, 3.3792},
	{"Cairo", "Egypt", 30.0444, 31.2357},
	{"Johannesburg", "South Africa", -26.2041, 28.0473},
}

var attackTypes = map[string][]string{
	"Phishing Emails": {
		"Credential Harvesting Phish",
		"CEO Fraud Email",
		"Malicious Attachment Email",
		"Phishing Link Click Detected",
		"Spear Phishing Campaign",
	},
	"Antivirus Malware": {
		"Ransomware Download Blocked",
		"Trojan Horse Detected",
		"Backdoor Malware Quarantined",
		"Cryptominer Detected",
		"Keylogger Prevented",
	},
	"Botnet Activity": {
		"Generic BOT Net Activity",
		"Mirai Botnet Traffic",
		"DDoS Bot Command Detected",
		"C2 Server Communication",
		"Bot Infection Attempt",
	},
	"Scanning Activity": {
		"Port Scan Detected",
		"Network Reconnaissance",
		"Vulnerability Scanning",
		"Service Enumeration Attempt",
		"Banner Grabbing Activity",
	},
	"Infiltration Attempts": {
		"Apache RCE Vulnerability Exploit",
		"SQL Injection Attempt",
		"Remote Code Execution Try",
		"Privilege Escalation Detected",
		"Lateral Movement Blocked",
	},
	"Web Gateway Threats": {
		"Malicious URL Blocked",
		"Drive-by Download Prevented",
		"Command Injection Blocked",
		"XSS Attack Detected",
		"Malware Distribution Site Blocked",
	},
}

var detectionSources = []string{
	"Splunk", "SIEM", "IDS", "Firewall", "Email Gateway", "Web Gateway", "Antivirus", "EDR",
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	count := flag.Int("count", 500, "Number of sample threats to generate")
	hours := flag.Int("hours", 168, "Spread timestamps over the last N hours")
	mode := flag.String("mode", config.ModeTest, "Target dataset: test or live")

	util.ParseFlags()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	threats := make([]models.Threat, 0, *count)
	now := time.Now()
	// limit critical/high events per day so a demo dataset does not look
	// like the end of the world
	type dayCount struct{ critical, high int }
	daily := map[int]*dayCount{}

	for i := 0; i < *count; i++ {
		t := generateThreat(now, *hours)

		age := now.Sub(mustTime(t.Timestamp))
		day := int(age.Hours() / 24)
		if daily[day] == nil {
			daily[day] = &dayCount{}
		}
		switch t.Severity {
		case "critical":
			if daily[day].critical >= 1 {
				t.Severity = "medium"
			} else {
				daily[day].critical++
			}
		case "high":
			if daily[day].high >= 2 {
				t.Severity = "medium"
			} else {
				daily[day].high++
			}
		}

		threats = append(threats, t)
	}

	// newest first, matching the store's disk ordering
	sort.Slice(threats, func(i, j int) bool {
		return threats[i].Timestamp > threats[j].Timestamp
	})

	st := store.NewThreatStore(cfg.Data.StorePath(*mode), cfg.Data.ExtendedSchema)
	if err := st.Bootstrap(); err != nil {
		util.PrintError("Failed to bootstrap store: " + err.Error())
		os.Exit(1)
	}
	result, err := st.AppendBatch(threats)
	if err != nil {
		util.PrintError("Failed to write sample data: " + err.Error())
		os.Exit(1)
	}

	util.PrintSuccess(fmt.Sprintf("Wrote %d sample threats to %s (%d pruned by retention)",
		result.Added, st.Path(), result.Pruned))
}

func generateThreat(now time.Time, hours int) models.Threat {
	category := randomKey(attackTypes)
	severity := randomSeverity()
	source := threatSources[rand.Intn(len(threatSources))]

	// 70% of attacks target the monitored Australian sites
	dest := australianSites[rand.Intn(len(australianSites))]
	if rand.Float64() >= 0.7 {
		dest = threatSources[rand.Intn(len(threatSources))]
	}

	blocked := rand.Float64() < 0.95

	age := time.Duration(rand.Float64() * float64(hours) * float64(time.Hour))
	return models.Threat{
		Timestamp:           now.Add(-age).UTC().Format(time.RFC3339),
		EventName:           randomElement(attackTypes[category]),
		SourceIP:            randomIP(),
		SourceLocation:      fmt.Sprintf("%g,%g", source.lat, source.lon),
		SourceCity:          source.city,
		SourceCountry:       source.country,
		DestinationIP:       randomIP(),
		DestinationLocation: fmt.Sprintf("%g,%g", dest.lat, dest.lon),
		DestinationCity:     dest.city,
		DestinationCountry:  dest.country,
		Volume:              randomVolume(severity),
		Severity:            severity,
		Category:            category,
		DetectionSource:     randomElement(detectionSources),
		Blocked:             blocked,
	}
}

// weighted: more medium/high, few critical
func randomSeverity() string {
	r := rand.Float64()
	switch {
	case r < 0.25:
		return "low"
	case r < 0.65:
		return "medium"
	case r < 0.90:
		return "high"
	default:
		return "critical"
	}
}

// higher severity tends to higher volume
func randomVolume(severity string) int {
	ranges := map[string][2]int{
		"low":      {10, 40},
		"medium":   {30, 70},
		"high":     {60, 90},
		"critical": {75, 100},
	}
	bounds, ok := ranges[severity]
	if !ok {
		bounds = [2]int{20, 80}
	}
	return bounds[0] + rand.Intn(bounds[1]-bounds[0]+1)
}

func randomIP() string {
	octets := make([]int, 4)
	for i := range octets {
		octet := rand.Intn(256)
		// avoid the common private ranges in the first octet
		if i == 0 && (octet == 10 || octet == 192 || octet == 172) {
			octet = 20 + rand.Intn(200)
		}
		octets[i] = octet
	}
	return fmt.Sprintf("%d.%d.%d.%d", octets[0], octets[1], octets[2], octets[3])
}

func randomElement(arr []string) string {
	return arr[rand.Intn(len(arr))]
}

func randomKey(m map[string][]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[rand.Intn(len(keys))]
}

func mustTime(ts string) time.Time {
	t, err := models.ParseTimestamp(ts)
	if err != nil {
		return time.Now()
	}
	return t
}
