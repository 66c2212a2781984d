package public

import "github.com/ardanlabs/microchain/foundation/blockchain/database"

type newTx struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Amount    *int64 `json:"amount" validate:"required"`
}

type newNodes struct {
	Nodes []string `json:"nodes" validate:"required,min=1,dive,required"`
}

type message struct {
	Message string `json:"message"`
}

type mined struct {
	Message  string        `json:"message"`
	Index    uint64        `json:"index"`
	Trans    []database.Tx `json:"transactions"`
	Proof    uint64        `json:"proof"`
	PrevHash string        `json:"previous_hash"`
}

type registered struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type replaced struct {
	Message  string               `json:"message"`
	NewChain []database.BlockData `json:"new_chain"`
}

type authoritative struct {
	Message string               `json:"message"`
	Chain   []database.BlockData `json:"chain"`
}
