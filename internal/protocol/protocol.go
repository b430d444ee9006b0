// Package protocol implements a line-oriented text protocol for driving the
// Congo engine, in the spirit of UCI.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/congoplay/internal/board"
	"github.com/hailam/congoplay/internal/engine"
	"github.com/hailam/congoplay/internal/storage"
)

// GameRecorder receives the outcome of every game played through the protocol.
type GameRecorder interface {
	RecordGame(result storage.GameResult) error
}

// Protocol is one protocol session.
type Protocol struct {
	engine   *engine.Engine
	position *board.Position

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serializes writes to out

	// Game bookkeeping for statistics
	recorder   GameRecorder
	human      board.Color
	difficulty storage.Difficulty
	started    time.Time
	plies      int

	// Search state
	searchDone chan struct{}
}

// New creates a protocol handler reading commands from in and writing
// responses to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *Protocol {
	return &Protocol{
		engine:   eng,
		position: board.CreateStandardPosition(),
		in:       in,
		out:      out,
		human:    board.White,
		started:  time.Now(),
	}
}

// SetRecorder makes finished games count towards statistics, seen from the
// human playing color human.
func (p *Protocol) SetRecorder(r GameRecorder, human board.Color, d storage.Difficulty) {
	p.recorder = r
	p.human = human
	p.difficulty = d
}

// Position returns the current position.
func (p *Protocol) Position() *board.Position {
	return p.position
}

func (p *Protocol) printf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

// Run reads commands until "quit" or end of input. A search still running
// at that point is waited for.
func (p *Protocol) Run() error {
	scanner := bufio.NewScanner(p.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "isready":
			p.wait()
			p.printf("readyok\n")
		case "newgame":
			p.handleNewGame()
		case "position":
			p.handlePosition(args)
		case "moves":
			p.handleMoves()
		case "move":
			p.handleMove(args)
		case "go":
			p.handleGo(args)
		case "random":
			p.handleRandom()
		case "stop":
			p.handleStop()
		case "setoption":
			p.handleSetOption(args)
		case "quit":
			p.handleStop()
			p.finishGame(true)
			return nil
		// Debug commands
		case "d":
			p.printf("%s\n", p.position.String())
		case "fen":
			p.printf("%s\n", p.position.ToFEN())
		case "perft":
			p.handlePerft(args)
		default:
			log.Warn().Str("command", cmd).Msg("unknown-command")
			p.printf("info string unknown command %s\n", cmd)
		}
	}

	p.wait()
	return scanner.Err()
}

// handleNewGame resets the engine for a new game.
func (p *Protocol) handleNewGame() {
	p.handleStop()
	p.finishGame(true)
	p.engine.Clear()
	p.setPosition(board.CreateStandardPosition())
}

func (p *Protocol) setPosition(pos *board.Position) {
	p.position = pos
	p.plies = 0
	p.started = time.Now()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves c2c3 c6c5
//   - position fen <ranks> <side> <jump>
//   - position fen <ranks> <side> <jump> moves c2c3
func (p *Protocol) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.CreateStandardPosition()
	case "fen":
		var err error
		pos, err = board.LoadPosition(strings.Join(args[1:movesAt], " "))
		if err != nil {
			log.Warn().Err(err).Msg("rejected-position")
			p.printf("info string invalid position: %v\n", err)
			return
		}
	default:
		return
	}

	if movesAt < len(args) {
		for _, s := range args[movesAt+1:] {
			next, ok := p.apply(pos, s)
			if !ok {
				return
			}
			pos = next
		}
	}

	p.handleStop()
	p.setPosition(pos)
}

// apply parses s and plays it on pos.
func (p *Protocol) apply(pos *board.Position, s string) (*board.Position, bool) {
	candidate, err := board.ParseMove(s)
	if err != nil {
		log.Warn().Err(err).Msg("rejected-move")
		p.printf("info string invalid move: %s\n", s)
		return nil, false
	}
	m, ok := pos.Accept(candidate)
	if !ok {
		log.Warn().Str("move", s).Str("fen", pos.ToFEN()).Msg("illegal-move")
		p.printf("info string illegal move: %s\n", s)
		return nil, false
	}
	return pos.Transition(m), true
}

func (p *Protocol) handleMoves() {
	moves := p.position.LegalMoves()
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	p.printf("moves %s\n", strings.Join(strs, " "))
}

// handleMove plays one move on the current position.
func (p *Protocol) handleMove(args []string) {
	if len(args) != 1 {
		p.printf("info string usage: move <from><to>\n")
		return
	}
	if p.position.HasEnded() {
		p.printf("info string game over\n")
		return
	}
	p.handleStop()

	next, ok := p.apply(p.position, args[0])
	if !ok {
		return
	}
	p.position = next
	p.plies++

	if next.HasEnded() {
		p.printf("result %s\n", resultString(next))
		p.finishGame(false)
	}
}

func resultString(pos *board.Position) string {
	if pos.IsInvalid() {
		return "invalid"
	}
	return strings.ToLower(pos.Winner().String()) + " wins"
}

// finishGame records the current game if any plies were played. abandoned is
// set when the game is left before a lion was taken.
func (p *Protocol) finishGame(abandoned bool) {
	if p.recorder == nil || p.plies == 0 {
		return
	}
	result := storage.GameResult{
		Abandoned:   abandoned || p.position.IsInvalid(),
		Won:         !abandoned && p.position.Winner() == p.human,
		PlayerColor: storage.ColorWhite,
		Difficulty:  p.difficulty,
		Plies:       p.plies,
		Duration:    time.Since(p.started),
	}
	if p.human == board.Black {
		result.PlayerColor = storage.ColorBlack
	}
	if err := p.recorder.RecordGame(result); err != nil {
		log.Error().Err(err).Msg("record-game")
	}
	p.plies = 0
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth int
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return opts
}

// handleGo starts a search in the background and prints the best move when
// it finishes.
func (p *Protocol) handleGo(args []string) {
	opts := parseGoOptions(args)
	depth := p.engine.Depth()
	if opts.Depth > 0 {
		depth = opts.Depth
	}

	p.wait()
	p.engine.OnInfo = p.sendInfo

	done := make(chan struct{})
	p.searchDone = done

	p.engine.Go(p.position, depth, func(m board.Move, ok bool) {
		defer close(done)

		if !ok {
			p.printf("bestmove 0000\n")
			return
		}
		p.printf("bestmove %s\n", m)
	})
}

// sendInfo outputs search info.
func (p *Protocol) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		fmt.Sprintf("score cp %d", info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	// Hash fullness
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}

	parts = append(parts, "pv "+info.Move.String())
	p.printf("info %s\n", strings.Join(parts, " "))
}

// handleRandom prints a uniformly chosen legal move.
func (p *Protocol) handleRandom() {
	m, ok := engine.RandomMove(p.position)
	if !ok {
		p.printf("bestmove 0000\n")
		return
	}
	p.printf("bestmove %s\n", m)
}

// wait blocks until the running search, if any, is done.
func (p *Protocol) wait() {
	if p.searchDone != nil {
		<-p.searchDone
		p.searchDone = nil
	}
}

// handleStop stops the current search.
func (p *Protocol) handleStop() {
	if p.searchDone != nil {
		p.engine.Stop()
		p.wait()
	}
}

// handleSetOption processes "setoption" commands.
func (p *Protocol) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	p.handleStop()

	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 {
			p.rejectOption(name, value)
			return
		}
		p.engine.SetDepth(depth)
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			p.rejectOption(name, value)
			return
		}
		p.engine.SetWorkers(n)
	case "difficulty":
		d, ok := engine.ParseDifficulty(strings.ToLower(value))
		if !ok {
			p.rejectOption(name, value)
			return
		}
		p.engine.SetDifficulty(d)
		p.difficulty = storage.Difficulty(d)
	case "debug":
		board.DebugAssertions = strings.ToLower(value) == "true"
	default:
		p.rejectOption(name, value)
	}
}

func (p *Protocol) rejectOption(name, value string) {
	log.Warn().Str("name", name).Str("value", value).Msg("rejected-option")
	p.printf("info string invalid option %s = %s\n", name, value)
}

// handlePerft runs a perft test.
func (p *Protocol) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		var err error
		depth, err = strconv.Atoi(args[0])
		if err != nil || depth < 1 {
			p.printf("info string invalid perft depth %s\n", args[0])
			return
		}
	}

	start := time.Now()
	nodes := p.engine.Perft(p.position, depth)
	elapsed := time.Since(start)

	p.printf("Nodes: %d\n", nodes)
	p.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		p.printf("NPS: %.0f\n", nps)
	}
}
