package ui

import tea "github.com/charmbracelet/bubbletea"

// bridgeCallbacks adapts scheduler.Callbacks onto bubbletea's Msg channel,
// so Sync/Async processor events (running on their own goroutines) surface
// as ordinary tea.Msg values in Update.
type bridgeCallbacks struct {
	ch chan tea.Msg
}

func newBridgeCallbacks() *bridgeCallbacks {
	return &bridgeCallbacks{ch: make(chan tea.Msg, 8)}
}

func (c *bridgeCallbacks) LoadComplete()  {}
func (c *bridgeCallbacks) SyncComplete()  {}
func (c *bridgeCallbacks) AsyncComplete(error) {}

func (c *bridgeCallbacks) BlockFinished() { c.ch <- blockFinishedMsg{} }
func (c *bridgeCallbacks) BlockCrashed(err error) { c.ch <- blockCrashedMsg{err: err} }
func (c *bridgeCallbacks) BlockInterrupted(reason string) {
	c.ch <- blockInterruptedMsg{reason: reason}
}

// waitCmd blocks for the next scheduler event. Update re-issues it after
// each received message for as long as a block is running.
func (c *bridgeCallbacks) waitCmd() tea.Cmd {
	return func() tea.Msg { return <-c.ch }
}
