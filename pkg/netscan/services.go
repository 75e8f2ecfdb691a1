// Package netscan: well-known service labels for report output.
package netscan

import "sort"

// serviceNames maps well-known TCP ports to service labels. Used purely for
// display; probe logic never consults it.
var serviceNames = map[int]string{
	21:    "FTP",
	22:    "SSH",
	23:    "Telnet",
	25:    "SMTP",
	53:    "DNS",
	80:    "HTTP",
	110:   "POP3",
	139:   "NetBIOS",
	143:   "IMAP",
	443:   "HTTPS",
	445:   "SMB",
	3306:  "MySQL",
	3389:  "RDP",
	5432:  "PostgreSQL",
	5900:  "VNC",
	6379:  "Redis",
	8000:  "Dev Server",
	8080:  "HTTP-Alt",
	8443:  "HTTPS-Alt",
	8888:  "Jupyter",
	9200:  "Elasticsearch",
	25565: "Minecraft Server",
	27017: "MongoDB",
}

// ServiceName returns the label for a well-known TCP port, or "Unknown".
func ServiceName(port int) string {
	if name, ok := serviceNames[port]; ok {
		return name
	}
	return "Unknown"
}

// CommonPorts returns the well-known port set in ascending order. This is
// the port list behind the --common-ports preset.
func CommonPorts() []int {
	ports := make([]int, 0, len(serviceNames))
	for p := range serviceNames {
		ports = append(ports, p)
	}
	sort.Ints(ports)
	return ports
}
