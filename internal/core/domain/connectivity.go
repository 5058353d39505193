package domain

// ConnectivityState is the process-wide network reachability state.
type ConnectivityState string

// Connectivity states.
const (
	ConnectivityUnknown  ConnectivityState = "UNKNOWN"
	ConnectivityChecking ConnectivityState = "CHECKING"
	ConnectivityOnline   ConnectivityState = "ONLINE"
	ConnectivityOffline  ConnectivityState = "OFFLINE"
)

// IsDefinitive returns true for ONLINE and OFFLINE.
func (s ConnectivityState) IsDefinitive() bool {
	return s == ConnectivityOnline || s == ConnectivityOffline
}

// AllowsFeatures returns true only when the network is reachable.
func (s ConnectivityState) AllowsFeatures() bool {
	return s == ConnectivityOnline
}

// String returns the string representation.
func (s ConnectivityState) String() string {
	return string(s)
}

// StateFromReachable maps a probe answer to a definitive state.
func StateFromReachable(reachable bool) ConnectivityState {
	if reachable {
		return ConnectivityOnline
	}
	return ConnectivityOffline
}
