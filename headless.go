package main

import (
	"hash/crc32"
	"log"
	"time"
)

// headlessBackend renders without a display. Input comes from an auto
// walker and the run quits after a fixed number of frames.
type headlessBackend struct {
	game      *Game
	walker    *autoWalker
	maxFrames int
	delta     time.Duration

	polled   int
	uploaded int
	checksum uint32
}

func newHeadlessBackend(g *Game, maxFrames int, seed int64) *headlessBackend {
	return &headlessBackend{
		game:      g,
		walker:    newAutoWalker(seed, 0),
		maxFrames: maxFrames,
		delta:     time.Second / defaultTPS,
	}
}

func (h *headlessBackend) Poll() inputState {
	if h.polled >= h.maxFrames {
		return inputState{quit: true}
	}
	h.polled++
	return h.walker.next(h.game.player, h.game.world, h.delta)
}

// Upload keeps a running checksum so runs can be compared.
func (h *headlessBackend) Upload(frame []byte) error {
	h.checksum = crc32.Update(h.checksum, crc32.IEEETable, frame)
	h.uploaded++
	return nil
}

func (h *headlessBackend) Present() error { return nil }

func (h *headlessBackend) Close() error {
	log.Printf("Headless run: %d frames, checksum %08x", h.uploaded, h.checksum)
	return nil
}
