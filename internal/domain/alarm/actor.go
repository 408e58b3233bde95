package alarm

// Actor identifies who issued a command through the API.
type Actor struct {
	// Hostname is the machine the command came from.
	Hostname string
	// Username is the account that ran the command.
	Username string
}

// String formats the actor as user@host.
func (a *Actor) String() string {
	if a == nil {
		return "unknown"
	}

	return a.Username + "@" + a.Hostname
}
