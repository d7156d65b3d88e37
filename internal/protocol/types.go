package protocol

const (
	TypeUserInfo   = "user_info"
	TypeUpdateInfo = "update_info"
	TypeUserList   = "user_list"
)

// SystemUsername is the author of join and leave notices sent by the relay.
const SystemUsername = "System"

type ChatMessage struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

type RosterEntry struct {
	Username    string `json:"username"`
	Description string `json:"description"`
}

type UserInfo struct {
	Type        string `json:"type"`
	Username    string `json:"username"`
	Description string `json:"description"`
}

type UserList struct {
	Type  string        `json:"type"`
	Users []RosterEntry `json:"users"`
}

// Roster is the answer of the roster HTTP resource. Basic deployments
// answer a bare count, richer ones the entries themselves.
type Roster struct {
	Count    int
	Entries  []RosterEntry
	HasUsers bool
}
