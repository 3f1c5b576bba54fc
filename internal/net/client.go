package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn

	in  io.Reader
	out io.Writer
}

// Connect connects to a server, sends the deck choice, and runs the REPL.
func Connect(ctx context.Context, addr string, deckNumber int) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Send join message with deck choice
	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, DeckNumber: deckNumber}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for the duel to start...")

	client := &Client{conn: conn}
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	if c.in == nil {
		c.in = os.Stdin
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	reader := bufio.NewReader(c.in)

	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgNotify:
			c.renderEvent(msg.Event)

		case MsgChooseAction:
			c.renderState(msg.State)
			c.renderActions(msg.Actions)
			idx, err := c.readChoice(reader, len(msg.Actions))
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: MsgAction, Index: idx}); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case MsgRejected:
			fmt.Fprintf(c.out, "Rejected: %s\n", msg.Error)

		case MsgGameOver:
			c.renderState(msg.State)
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "            DUEL OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	phase := ev.Phase
	if phase == "" {
		phase = "          "
	}
	for len(phase) < 16 {
		phase += " "
	}
	fmt.Fprintf(c.out, "T%-2d %s| %s\n", ev.Turn, phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	w := c.out

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")

	opp := sv.Opponent
	fmt.Fprintf(w, "║  OPPONENT (LP: %d)  Hand: %d  Deck: %d  Graveyard: %d\n",
		opp.LP, opp.HandCount, opp.DeckCount, opp.GraveyardCount)
	if !opp.FieldCard.Empty {
		fmt.Fprintf(w, "║  Field:     %s\n", formatBackrowZone(opp.FieldCard))
	}
	fmt.Fprintf(w, "║  Backrow:   %s\n", joinZones(opp.Backrow[:], formatBackrowZone))
	fmt.Fprintf(w, "║  Creatures: %s\n", joinZones(opp.Creatures[:], formatCreatureZone))

	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")

	you := sv.You
	fmt.Fprintf(w, "║  Creatures: %s\n", joinZones(you.Creatures[:], formatCreatureZone))
	fmt.Fprintf(w, "║  Backrow:   %s\n", joinZones(you.Backrow[:], formatBackrowZone))
	if !you.FieldCard.Empty {
		fmt.Fprintf(w, "║  Field:     %s\n", formatBackrowZone(you.FieldCard))
	}
	fmt.Fprintf(w, "║  YOU (LP: %d)  Hand: %d  Deck: %d  Graveyard: %d\n",
		you.LP, you.HandCount, you.DeckCount, you.GraveyardCount)
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d | %s", sv.Turn, sv.Phase)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	} else {
		turnInfo += " | Opponent's turn"
	}
	fmt.Fprintln(w, turnInfo)

	if len(you.Hand) > 0 {
		fmt.Fprintf(w, "\nHand: ")
		for _, cv := range you.Hand {
			fmt.Fprintf(w, "[%d] %s  ", cv.Index+1, formatHandCard(cv))
		}
		fmt.Fprintln(w)
	}
}

func joinZones(zones []ZoneView, format func(ZoneView) string) string {
	parts := make([]string, len(zones))
	for i, zv := range zones {
		parts[i] = format(zv)
	}
	return strings.Join(parts, " ")
}

func formatCreatureZone(zv ZoneView) string {
	if zv.Empty {
		return "[ ]"
	}
	s := fmt.Sprintf("[%s %d/%d", zv.Name, zv.ATK, zv.DEF)
	if zv.Borrowed {
		s += " *"
	}
	return s + "]"
}

func formatBackrowZone(zv ZoneView) string {
	switch {
	case zv.Empty:
		return "[ ]"
	case zv.FaceDown && zv.Name != "":
		return fmt.Sprintf("[SET:%s]", zv.Name)
	case zv.FaceDown:
		return "[SET]"
	}
	return fmt.Sprintf("[%s]", zv.Name)
}

func formatHandCard(cv CardView) string {
	if cv.Kind == "creature" {
		return fmt.Sprintf("%s (Lv%d %d/%d)", cv.Name, cv.Level, cv.ATK, cv.DEF)
	}
	return fmt.Sprintf("%s (%s)", cv.Name, cv.Kind)
}

func (c *Client) renderActions(actions []ActionView) {
	fmt.Fprintln(c.out, "\nActions:")
	for _, a := range actions {
		fmt.Fprintf(c.out, "  %d) %s\n", a.Index+1, a.Desc)
	}
}

func (c *Client) readChoice(reader *bufio.Reader, count int) (int, error) {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return 0, fmt.Errorf("read input: %w", err)
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil || n < 1 || n > count {
			fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
			continue
		}
		return n - 1, nil // convert to 0-indexed
	}
}
