// Package oui resolves MAC addresses to vendor names using the embedded
// IEEE OUI database. Used to label hosts discovered via ARP liveness.
package oui

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/klauspost/oui"
)

var (
	db     oui.OuiDB
	dbOnce sync.Once
	dbErr  error
)

// initDB loads the embedded database on first use.
func initDB() error {
	dbOnce.Do(func() {
		d, err := oui.OpenStaticFile("")
		if err != nil {
			dbErr = fmt.Errorf("load embedded OUI database: %w", err)
			return
		}
		db = d
	})
	return dbErr
}

// Lookup returns the manufacturer registered for the MAC address, or an
// empty string when the prefix is not in the database. The MAC may use
// colon, dash, dot, or bare hex notation.
func Lookup(mac string) (string, error) {
	if err := initDB(); err != nil {
		return "", err
	}

	normalized := normalizeMAC(mac)
	if normalized == "" {
		return "", fmt.Errorf("invalid MAC address format: %q", mac)
	}
	hwAddr, err := net.ParseMAC(normalized)
	if err != nil {
		return "", fmt.Errorf("parse MAC address: %w", err)
	}

	entry, err := db.Query(hwAddr.String())
	if err != nil {
		if err == oui.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("OUI lookup: %w", err)
	}
	return entry.Manufacturer, nil
}

// VendorName returns just the manufacturer name, or empty on any failure.
func VendorName(mac string) string {
	name, err := Lookup(mac)
	if err != nil {
		return ""
	}
	return name
}

// normalizeMAC converts the accepted MAC notations to 00:11:22:33:44:55.
func normalizeMAC(mac string) string {
	mac = strings.ToLower(mac)
	for _, sep := range []string{"-", ":", "."} {
		mac = strings.ReplaceAll(mac, sep, "")
	}
	if len(mac) != 12 {
		return ""
	}
	for _, c := range mac {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return ""
		}
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		mac[0:2], mac[2:4], mac[4:6], mac[6:8], mac[8:10], mac[10:12])
}
