package tablebase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// lichessMaxPieces is the largest piece count the public Lichess tablebase
// API serves.
const lichessMaxPieces = 7

const lichessRequestTimeout = 5 * time.Second

// LichessProber answers tablebase queries against Lichess's public online
// API. It needs network access and is subject to that service's rate
// limits; a local Syzygy-backed Prober avoids both at the cost of disk
// space.
type LichessProber struct {
	client    *http.Client
	maxPieces int
}

// NewLichessProber returns a prober hitting the Lichess tablebase endpoint.
func NewLichessProber() *LichessProber {
	return &LichessProber{
		client:    &http.Client{Timeout: lichessRequestTimeout},
		maxPieces: lichessMaxPieces,
	}
}

type lichessResponse struct {
	Category string `json:"category"` // win, draw, maybe-win, maybe-draw, loss
	DTZ      int    `json:"dtz"`
	Moves    []struct {
		UCI      string `json:"uci"`
		Category string `json:"category"`
		DTZ      int    `json:"dtz"`
	} `json:"moves"`
}

// fetchLichess queries the tablebase endpoint for pos and decodes the JSON
// body. ok is false on any network, status, or decode failure.
func (lp *LichessProber) fetchLichess(pos *board.Position) (resp lichessResponse, ok bool) {
	fen := strings.ReplaceAll(pos.ToFEN(), " ", "_")
	url := fmt.Sprintf("https://tablebase.lichess.ovh/standard?fen=%s", fen)

	httpResp, err := lp.client.Get(url)
	if err != nil {
		return lichessResponse{}, false
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return lichessResponse{}, false
	}

	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return lichessResponse{}, false
	}
	return resp, true
}

func (lp *LichessProber) Probe(pos *board.Position) ProbeResult {
	if CountPieces(pos) > lp.maxPieces {
		return ProbeResult{Found: false}
	}

	result, ok := lp.fetchLichess(pos)
	if !ok {
		return ProbeResult{Found: false}
	}

	return ProbeResult{
		Found: true,
		WDL:   categoryToWDL(result.Category),
		DTZ:   result.DTZ,
	}
}

func (lp *LichessProber) ProbeRoot(pos *board.Position) RootResult {
	if CountPieces(pos) > lp.maxPieces {
		return RootResult{Found: false}
	}

	result, ok := lp.fetchLichess(pos)
	if !ok || len(result.Moves) == 0 {
		return RootResult{Found: false}
	}

	best := result.Moves[0]
	move := parseUCIMove(pos, best.UCI)
	if move == board.NoMove {
		return RootResult{Found: false}
	}

	return RootResult{
		Found: true,
		Move:  move,
		WDL:   categoryToWDL(best.Category),
		DTZ:   best.DTZ,
	}
}

func (lp *LichessProber) MaxPieces() int {
	return lp.maxPieces
}

func (lp *LichessProber) Available() bool {
	return true
}

func categoryToWDL(category string) WDL {
	switch category {
	case "win":
		return WDLWin
	case "maybe-win":
		return WDLCursedWin
	case "draw":
		return WDLDraw
	case "maybe-draw", "cursed-win", "blessed-loss":
		return WDLDraw // ambiguous under the 50-move rule; treat as a draw
	case "loss":
		return WDLLoss
	default:
		return WDLDraw
	}
}

// parseUCIMove resolves a UCI move string ("e2e4", "a7a8q") against pos's
// legal moves, so the result carries correct promotion/capture flags.
func parseUCIMove(pos *board.Position, uci string) board.Move {
	if len(uci) < 4 {
		return board.NoMove
	}

	fromFile := int(uci[0] - 'a')
	fromRank := int(uci[1] - '1')
	toFile := int(uci[2] - 'a')
	toRank := int(uci[3] - '1')

	if fromFile < 0 || fromFile > 7 || fromRank < 0 || fromRank > 7 ||
		toFile < 0 || toFile > 7 || toRank < 0 || toRank > 7 {
		return board.NoMove
	}

	from := board.NewSquare(fromFile, fromRank)
	to := board.NewSquare(toFile, toRank)

	var promo board.PieceType
	if len(uci) == 5 {
		switch uci[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		}
	}

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() != from || m.To() != to {
			continue
		}
		if promo != 0 {
			if m.IsPromotion() && m.Promotion() == promo {
				return m
			}
			continue
		}
		if !m.IsPromotion() {
			return m
		}
	}

	return board.NoMove
}
