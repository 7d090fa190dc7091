// Package config loads named storage profiles from YAML and backend
// configuration from the environment.
//
// A profile file declares one or more backends by driver name:
//
//	profiles:
//	  uploads:
//	    driver: disk
//	    root: /var/data/uploads
//	    base_url: https://files.example.com/
//	  archive:
//	    driver: s3
//	    bucket: archive
//	    region: us-east-1
//	    access_key: AKIA...
//	    secret_key: ...
//	  cache:
//	    driver: redis
//	    url: redis://localhost:6379/0
//	    ttl: 24h
//
// Load the file and feed a profile to filestore.Open to build a backend.
//
// For single-backend deployments, FromEnv parses any of the module's Config
// structs straight from environment variables:
//
//	cfg, err := config.FromEnv[storage.DiskConfig]()
package config
