package labjack

// Numeric device and connection type codes as reported by the stream
// library handle info.
const (
	DeviceTypeAny     = 0
	DeviceTypeT4      = 4
	DeviceTypeT7      = 7
	DeviceTypeT8      = 8
	DeviceTypeTSeries = 84
	DeviceTypeDigit   = 200
	// DeviceTypeDemo marks the in-process simulator.
	DeviceTypeDemo = -4

	ConnectionTypeAny         = 0
	ConnectionTypeUSB         = 1
	ConnectionTypeTCP         = 2
	ConnectionTypeEthernet    = 3
	ConnectionTypeWifi        = 4
	ConnectionTypeNetworkUDP  = 5
	ConnectionTypeEthernetUDP = 6
	ConnectionTypeWifiUDP     = 7
	ConnectionTypeNetworkAny  = 8
	ConnectionTypeEthernetAny = 9
	ConnectionTypeWifiAny     = 10
	ConnectionTypeAnyUDP      = 11
)

var deviceTypeNames = map[int]string{
	DeviceTypeAny:     "ANY",
	DeviceTypeT4:      "T4",
	DeviceTypeT7:      "T7",
	DeviceTypeT8:      "T8",
	DeviceTypeTSeries: "TSERIES",
	DeviceTypeDigit:   "DIGIT",
	DeviceTypeDemo:    "DEMO",
}

var connectionTypeNames = map[int]string{
	ConnectionTypeAny:         "ANY",
	ConnectionTypeUSB:         "USB",
	ConnectionTypeTCP:         "TCP",
	ConnectionTypeEthernet:    "ETHERNET",
	ConnectionTypeWifi:        "WIFI",
	ConnectionTypeNetworkUDP:  "NETWORK_UDP",
	ConnectionTypeEthernetUDP: "ETHERNET_UDP",
	ConnectionTypeWifiUDP:     "WIFI_UDP",
	ConnectionTypeNetworkAny:  "NETWORK_ANY",
	ConnectionTypeEthernetAny: "ETHERNET_ANY",
	ConnectionTypeWifiAny:     "WIFI_ANY",
	ConnectionTypeAnyUDP:      "ANY_UDP",
}

// DeviceTypeName decodes a numeric device type to its symbolic name.
func DeviceTypeName(t int) string {
	if n, ok := deviceTypeNames[t]; ok {
		return n
	}
	return "unknown device type"
}

// ConnectionTypeName decodes a numeric connection type to its symbolic name.
func ConnectionTypeName(t int) string {
	if n, ok := connectionTypeNames[t]; ok {
		return n
	}
	return "unknown connection type"
}
