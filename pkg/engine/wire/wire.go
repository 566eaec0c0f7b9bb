// Package wire defines the engine's external JSON shapes: the dual-notation Move
// encoding and the serialized game-state snapshot, tolerating both a short field-name
// form and a long one on the wire rather than a single fixed schema.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/commanderchess/engine/pkg/board"
)

// Move is the wire shape for board.Move, accepting both the short field names
// ({pid,dc,dr}) and the long form ({piece_id,to_col,to_row}).
type Move struct {
	PID int32 `json:"pid"`
	DC  int8  `json:"dc"`
	DR  int8  `json:"dr"`

	PieceID int32 `json:"piece_id"`
	ToCol   int8  `json:"to_col"`
	ToRow   int8  `json:"to_row"`
}

// FromMove renders a board.Move in the long wire form.
func FromMove(m board.Move) Move {
	return Move{PieceID: m.PieceID, ToCol: m.ToCol, ToRow: m.ToRow}
}

// ToMove resolves the wire shape to a board.Move from the long fields (PieceID, ToCol,
// ToRow) only; the short-notation fields are not consulted.
func (m Move) ToMove() board.Move {
	return board.Move{PieceID: m.PieceID, ToCol: m.ToCol, ToRow: m.ToRow}
}

// ParseMove unmarshals a wire move from either notation, preferring the long field
// names ({piece_id,to_col,to_row}) when both notations are present in the payload.
func ParseMove(data []byte) (board.Move, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return board.NoMove, fmt.Errorf("invalid move payload: %w", err)
	}

	var m Move
	if _, ok := raw["piece_id"]; ok {
		if err := json.Unmarshal(data, &struct {
			PieceID *int32 `json:"piece_id"`
			ToCol   *int8  `json:"to_col"`
			ToRow   *int8  `json:"to_row"`
		}{&m.PieceID, &m.ToCol, &m.ToRow}); err != nil {
			return board.NoMove, fmt.Errorf("invalid move payload: %w", err)
		}
		return m.ToMove(), nil
	}
	if err := json.Unmarshal(data, &struct {
		PID *int32 `json:"pid"`
		DC  *int8  `json:"dc"`
		DR  *int8  `json:"dr"`
	}{&m.PID, &m.DC, &m.DR}); err != nil {
		return board.NoMove, fmt.Errorf("invalid move payload: %w", err)
	}
	m.PieceID, m.ToCol, m.ToRow = m.PID, m.DC, m.DR
	return m.ToMove(), nil
}

// Piece is the wire shape for a single board.Piece, used inside SerializedState.
type Piece struct {
	ID        int32  `json:"id"`
	Side      string `json:"side"`
	Kind      string `json:"kind"`
	Col       int8   `json:"col"`
	Row       int8   `json:"row"`
	Hero      bool   `json:"hero"`
	CarrierID int32  `json:"carrier_id"`
}

// SerializedState is the deep-copy snapshot returned by GameState.SerializeState:
// pieces, side to move, mode, game-over status and the legal moves available to the
// side to move, per the engine surface's serialize_state contract.
type SerializedState struct {
	Pieces       []Piece `json:"pieces"`
	SideToMove   string  `json:"side_to_move"`
	Mode         string  `json:"mode"`
	PlyCount     int     `json:"ply_count"`
	GameOver     bool    `json:"game_over"`
	Result       string  `json:"result,omitempty"`
	LegalMoves   []Move  `json:"legal_moves"`
}
