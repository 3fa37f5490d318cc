package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

const (
	terminalPrefix  = "POS-"
	unknownTerminal = "POS-UNKNOWN"
)

// TerminalID identifies this till on reports and kitchen tickets. It hashes
// the MAC address of the first active interface into "POS-A1B2C3D4".
func TerminalID() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return unknownTerminal
	}
	for _, i := range interfaces {
		if i.Flags&net.FlagUp != 0 && len(i.HardwareAddr) > 0 {
			return terminalIDFromMAC(i.HardwareAddr.String())
		}
	}
	return unknownTerminal
}

func terminalIDFromMAC(mac string) string {
	if mac == "" {
		return unknownTerminal
	}
	hash := sha256.Sum256([]byte(mac + "GRILLMASTER-POS"))
	return terminalPrefix + strings.ToUpper(hex.EncodeToString(hash[:])[:8])
}
