package entity

// Turn is one role-tagged message in the conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProductGroup is one series entry in the catalog browse menu.
type ProductGroup struct {
	Label      string   `json:"label"`
	ProductIDs []string `json:"product_ids"`
}

// Browse cursor positions.
const (
	ViewNone   = "none"
	ViewGroups = "groups"
	ViewItems  = "items"
)

// Session holds all per-conversation mutable state. One user, one active
// turn at a time; the turn handler mutates fields in place.
type Session struct {
	ID           string `json:"id"`
	History      []Turn `json:"history"`
	Lang         string `json:"lang"` // "ar" | "en"
	Mode         string `json:"mode"` // "" | "reading" | "display" | "software"
	LastIntent   string `json:"last_intent"`
	LastBotReply string `json:"last_bot_reply"`
	Introduced   bool   `json:"introduced"`

	AwaitingLocationCity  bool   `json:"awaiting_location_city"`
	AwaitingShippingPlace bool   `json:"awaiting_shipping_place"`
	ShippingScope         string `json:"shipping_scope"` // "" | "ksa" | "outside"

	ViewMode   string         `json:"view_mode"` // ViewNone | ViewGroups | ViewItems
	LastGroups []ProductGroup `json:"last_groups"`
	LastItems  []string       `json:"last_items"` // product IDs of the listed items
	PageOffset int            `json:"page_offset"`
}

// NewSession returns a fresh session locked to Arabic by default.
func NewSession(id string) *Session {
	return &Session{ID: id, Lang: "ar", ViewMode: ViewNone}
}

// Push appends a turn, keeping at most maxHistory entries.
func (s *Session) Push(role, content string, maxHistory int) {
	if content == "" {
		return
	}
	s.History = append(s.History, Turn{Role: role, Content: content})
	if maxHistory > 0 && len(s.History) > maxHistory {
		s.History = s.History[len(s.History)-maxHistory:]
	}
}

// CancelBrowse drops the catalog cursor without touching anything else.
func (s *Session) CancelBrowse() {
	s.ViewMode = ViewNone
	s.LastGroups = nil
	s.LastItems = nil
	s.PageOffset = 0
}

// Reset clears everything back to a first-contact state.
func (s *Session) Reset() {
	s.History = nil
	s.Lang = "ar"
	s.Mode = ""
	s.LastIntent = ""
	s.LastBotReply = ""
	s.Introduced = false
	s.AwaitingLocationCity = false
	s.AwaitingShippingPlace = false
	s.ShippingScope = ""
	s.CancelBrowse()
}
