// Package storage provides Redis persistence for solved challenges and
// solver statistics.
package storage

// Solution is a solved Cerberus challenge as persisted to Redis.
type Solution struct {
	Prefix     string `json:"prefix"`
	Nonce      uint64 `json:"nonce"`
	Hash       string `json:"hash"`
	Difficulty uint8  `json:"difficulty"`
	Attempts   uint64 `json:"attempts"`
	ElapsedMs  int64  `json:"elapsed_ms"`
	Timestamp  int64  `json:"timestamp"`
}

// Stats summarizes the solver's lifetime counters.
type Stats struct {
	Solutions    uint64            `json:"solutions"`
	Attempts     uint64            `json:"attempts"`
	ByDifficulty map[string]uint64 `json:"by_difficulty"`
	LastSolution int64             `json:"last_solution"`
}
