// Package janitor removes expired files from a storage backend on a cron
// schedule.
//
// A Janitor lists keys through the backend's Lister interface and deletes
// anything older than the retention window. Backends that do not report
// modification times are left alone: a zero ModTime never matches.
//
//	j, err := janitor.New(store, janitor.Config{
//	    Schedule:  "30 3 * * *",
//	    Retention: 7 * 24 * time.Hour,
//	    Prefix:    "exports/",
//	}, janitor.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	if err := j.Start(); err != nil {
//	    return err
//	}
//	defer j.Stop()
//
// One-off sweeps are available through Sweep, which is also what the
// scheduler runs.
package janitor
