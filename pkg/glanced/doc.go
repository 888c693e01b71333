// Package glanced provides an embeddable runtime for small always-on
// displays. It runs a set of polling data sources, each on its own
// fail-stop scheduling loop, and arbitrates a single display slot so that
// exactly one piece of content owns the panel at a time.
//
// # Basic Usage
//
// To embed glanced in your application:
//
//	cfg := glanced.DefaultConfig()
//	cfg.Simulate = true // no panel attached
//
//	device, err := glanced.New(cfg,
//	    glanced.WithLogger(myLogger),
//	    glanced.WithSource(timesource.New(timesource.DefaultConfig(), myLogger),
//	        glanced.SourceConfig{Enabled: true, UpdateInterval: 30 * time.Second, MaxErrors: 5}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if err := device.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal ...
//
//	if err := device.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// # Showing Content
//
// Anything may be pushed to the panel through [Device.Show]. A positive
// duration arms an auto-clear that blanks the panel once the time is up,
// unless newer content has taken the slot in the meantime:
//
//	device.Show(glanced.CenteredText("12:30 PM", "03/14/2026"), 10*time.Second)
//
// # Sources
//
// A source implements [Capability]: a name, an initialization hook, a
// fetch step invoked on the source's schedule, and a cleanup hook. Records
// a source produces supersede older records with the same (source, kind)
// key and expire by TTL. Listen to a source's records with
// [Device.Subscribe].
//
// A source that fails MaxErrors consecutive fetches stops permanently;
// the rest of the device keeps running.
package glanced
