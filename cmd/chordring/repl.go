package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"chordring/internal/logger"
	"chordring/internal/observability"
	"chordring/internal/peer"
	"chordring/internal/ring"
)

func replCmd(configPath *string) *cobra.Command {
	var bits uint

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively build a ring and issue join/insert/find/leave commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, lgr, err := loadConfigAndLogger(*configPath)
			if err != nil {
				return err
			}
			return runREPL(bits, lgr)
		},
	}
	cmd.Flags().UintVar(&bits, "bits", 8, "identifier space bit width")
	return cmd
}

// session tags one REPL run; its id prefixes the startup banner so
// output from interleaved runs against the same terminal history
// stays distinguishable.
type session struct {
	id    string
	space ring.Space
	lgr   logger.Logger
	peers map[peer.ID]*peer.Peer
}

func runREPL(bits uint, lgr logger.Logger) error {
	sp, err := ring.NewSpace(bits)
	if err != nil {
		return err
	}
	s := &session{
		id:    uuid.NewString()[:8],
		space: sp,
		lgr:   lgr,
		peers: make(map[peer.ID]*peer.Peer),
	}

	fmt.Printf("chordring repl [%s]. %d-bit ring. commands: bootstrap/join/insert/find/remove/leave/show/keys/trace/exit\n", s.id, bits)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt(fmt.Sprintf("chordring[%s]> ", s.id))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println("aborted")
				continue
			}
			return nil
		}
		line.AppendHistory(input)

		args := strings.Fields(strings.TrimSpace(input))
		if len(args) == 0 {
			continue
		}
		if err := s.dispatch(args); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Println("error:", err)
		}
	}
}

var errExit = errors.New("exit requested")

func (s *session) dispatch(args []string) error {
	switch args[0] {
	case "bootstrap":
		return s.cmdBootstrap(args[1:])
	case "join":
		return s.cmdJoin(args[1:])
	case "insert":
		return s.cmdInsert(args[1:])
	case "find":
		return s.cmdFind(args[1:])
	case "remove":
		return s.cmdRemove(args[1:])
	case "leave":
		return s.cmdLeave(args[1:])
	case "show":
		return s.cmdShow(args[1:])
	case "keys":
		return s.cmdKeys(args[1:])
	case "trace":
		return s.cmdTrace(args[1:])
	case "exit", "quit":
		return errExit
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (s *session) parsePeer(arg string) (*peer.Peer, error) {
	n, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid peer id %q: %w", arg, err)
	}
	p, ok := s.peers[peer.ID(n)]
	if !ok {
		return nil, fmt.Errorf("no peer with id %d", n)
	}
	return p, nil
}

func (s *session) cmdBootstrap(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: bootstrap <id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return err
	}
	p := peer.New(s.space, peer.ID(id), s.lgr)
	if _, err := p.Join(nil); err != nil {
		return err
	}
	s.peers[peer.ID(id)] = p
	fmt.Printf("peer %d bootstrapped\n", id)
	return nil
}

func (s *session) cmdJoin(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: join <id> <via-id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return err
	}
	via, err := s.parsePeer(args[1])
	if err != nil {
		return err
	}
	p := peer.New(s.space, peer.ID(id), s.lgr)
	migrations, err := p.Join(via)
	if err != nil {
		return err
	}
	s.peers[peer.ID(id)] = p
	fmt.Printf("peer %d joined via %d\n", id, via.ID())
	for _, m := range migrations {
		fmt.Println(m)
	}
	return nil
}

func (s *session) cmdInsert(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: insert <peer-id> <key> [value]")
	}
	p, err := s.parsePeer(args[0])
	if err != nil {
		return err
	}
	key, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return err
	}
	var value any
	if len(args) > 2 {
		value = args[2]
	}
	if err := p.Insert(peer.ID(key), value); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func (s *session) cmdFind(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: find <peer-id> <key>")
	}
	p, err := s.parsePeer(args[0])
	if err != nil {
		return err
	}
	key, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return err
	}
	v, ok, err := p.Find(peer.ID(key))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("not found")
		return nil
	}
	fmt.Printf("value = %v\n", v)
	return nil
}

func (s *session) cmdRemove(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: remove <peer-id> <key>")
	}
	p, err := s.parsePeer(args[0])
	if err != nil {
		return err
	}
	key, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return err
	}
	if err := p.Remove(peer.ID(key)); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}

func (s *session) cmdLeave(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: leave <peer-id>")
	}
	p, err := s.parsePeer(args[0])
	if err != nil {
		return err
	}
	migrations, err := p.Leave()
	if err != nil {
		return err
	}
	for _, m := range migrations {
		fmt.Println(m)
	}
	fmt.Printf("peer %d left\n", p.ID())
	return nil
}

func (s *session) cmdShow(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: show <peer-id>")
	}
	p, err := s.parsePeer(args[0])
	if err != nil {
		return err
	}
	fmt.Print(observability.PrettyPrint(p))
	return nil
}

func (s *session) cmdKeys(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: keys <peer-id>")
	}
	p, err := s.parsePeer(args[0])
	if err != nil {
		return err
	}
	fmt.Print(observability.PrintKeys(p))
	return nil
}

func (s *session) cmdTrace(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: trace <peer-id>")
	}
	p, err := s.parsePeer(args[0])
	if err != nil {
		return err
	}
	fmt.Print(observability.PrintLookupResults(p))
	return nil
}
