package models

// Group is a snapshot of a group and its members at the time it was read.
type Group struct {
	ID    int    `json:"Gid"`
	Name  string `json:"Name"`
	Users []User `json:"Users"`
}

// HasMember reports whether uid is among g's members.
func (g Group) HasMember(uid int) bool {
	for _, u := range g.Users {
		if u.ID == uid {
			return true
		}
	}
	return false
}
