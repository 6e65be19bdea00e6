// Package commandchest binds commands to container blocks on Dragonfly
// servers. A configured chest runs its command as the clicking player,
// gated by an activation method (left, right, either or sneak click), an
// optional held-item requirement and a per-player cooldown, and may carry
// a floating multi-line label above the block.
//
// # Quick Start
//
// Wire the manager into your server setup:
//
//	conf, err := commandchest.LoadConfig("commandchest.yml")
//	if err != nil {
//	    log.Fatalln(err)
//	}
//	m, err := commandchest.New(commandchest.Options{
//	    Config:    conf,
//	    UI:        myMenuUI,
//	    Spawner:   commandchest.NewWorldTextSpawner(resolver),
//	    Messenger: myMessenger,
//	})
//	if err != nil {
//	    log.Fatalln(err)
//	}
//	commandchest.RegisterCommand(m)
//	if err := m.Load(); err != nil {
//	    log.Fatalln(err)
//	}
//
//	for p := range srv.Accept() {
//	    p.Handle(m.Handler())
//	}
//
// Call m.Close on shutdown to persist every chest and remove the labels.
//
// # Configuration flow
//
// Players obtain the configurator stick through /cchest and click a
// container block with it to open the editor. The editor is a modal
// chest menu: buttons switch the activation method, place the required
// item, or hand off to chat capture for the command, the cooldown and
// the label lines. Nothing is committed until the save button is
// pressed; the session works on a clone of the stored record.
//
// The menu substrate and the message delivery are injected through the
// MenuUI and Messenger interfaces so the package stays independent of
// any particular inventory UI library.
package commandchest
