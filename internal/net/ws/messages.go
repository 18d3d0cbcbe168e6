package ws

type clientMessage struct {
	Ver        int     `json:"ver,omitempty"`
	Type       string  `json:"type"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	TitanID    string  `json:"titanId"`
	Amount     int     `json:"amount"`
	Event      string  `json:"event"`
	Score      int     `json:"score"`
	CommandSeq *uint64 `json:"seq,omitempty"`
}

type welcomeMessage struct {
	Ver         int    `json:"ver"`
	Type        string `json:"type"`
	Participant int    `json:"participant"`
	Offline     bool   `json:"offline"`
}

type commandAckMessage struct {
	Ver  int    `json:"ver"`
	Type string `json:"type"`
	Seq  uint64 `json:"seq"`
}

type commandRejectMessage struct {
	Ver    int    `json:"ver"`
	Type   string `json:"type"`
	Seq    uint64 `json:"seq"`
	Reason string `json:"reason"`
	Retry  bool   `json:"retry,omitempty"`
}
