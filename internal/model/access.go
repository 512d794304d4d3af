package model

// Capability is a named permission bit of an access password.
type Capability string

// Capabilities.
const (
	CapAll    Capability = "all"
	CapInsert Capability = "insert"
	CapUpdate Capability = "update"
	CapUpload Capability = "upload"
	CapDelete Capability = "delete"
)

// Capabilities lists every capability in display order.
var Capabilities = []Capability{CapAll, CapInsert, CapUpdate, CapUpload, CapDelete}

// ParseCapability converts a name into a Capability.
func ParseCapability(name string) (Capability, bool) {
	for _, c := range Capabilities {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Perms holds the independently granted capabilities of an access password.
type Perms struct {
	All    bool `json:"all"`
	Insert bool `json:"insert"`
	Update bool `json:"update"`
	Upload bool `json:"upload"`
	Delete bool `json:"delete"`
}

// Has reports whether the capability is granted, either directly or through All.
func (p Perms) Has(c Capability) bool {
	if p.All {
		return true
	}
	switch c {
	case CapInsert:
		return p.Insert
	case CapUpdate:
		return p.Update
	case CapUpload:
		return p.Upload
	case CapDelete:
		return p.Delete
	default:
		return false
	}
}

// Set grants a capability.
func (p *Perms) Set(c Capability) {
	switch c {
	case CapAll:
		p.All = true
	case CapInsert:
		p.Insert = true
	case CapUpdate:
		p.Update = true
	case CapUpload:
		p.Upload = true
	case CapDelete:
		p.Delete = true
	}
}

// Granted lists the capabilities set on p.
func (p Perms) Granted() []Capability {
	var out []Capability
	flags := []bool{p.All, p.Insert, p.Update, p.Upload, p.Delete}
	for i, c := range Capabilities {
		if flags[i] {
			out = append(out, c)
		}
	}
	return out
}

// Access is a write password and the capabilities it carries. The plaintext
// password is never stored.
type Access struct {
	ID    string `json:"id"`
	Perms Perms  `json:"perms"`
}

// Kind names the entity kinds an access grant can point at.
type Kind string

// Entity kinds.
const (
	KindCategory Kind = "category"
	KindItem     Kind = "item"
)

// Target identifies one category or item instance.
type Target struct {
	Kind Kind
	ID   string
}

// CategoryTarget returns the target for a category id.
func CategoryTarget(id string) Target { return Target{Kind: KindCategory, ID: id} }

// ItemTarget returns the target for an item id.
func ItemTarget(id string) Target { return Target{Kind: KindItem, ID: id} }

// InstanceAccess grants one Access the right to act on exactly one category or item.
type InstanceAccess struct {
	ID         string `json:"id"`
	AccessID   string `json:"access_id"`
	CategoryID string `json:"category_id,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
}
