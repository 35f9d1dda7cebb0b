// Package config loads reader settings from YAML, JSON or TOML files.
//
// The file format is chosen by extension (.yaml/.yml, .json, .toml). Every
// field is optional; ToReaderConfig overlays the values that are set on
// offchain.DefaultConfig(), so an empty file reproduces the built-in
// endpoint and key.
//
//	node:
//	  endpoint: ws://127.0.0.1:9944
//	  origin: http://localhost
//	  timeout: 30s
//	storage:
//	  kind: PERSISTENT
//	  key: "0x6e6f64652d74656d706c6174653a3a73746f726167653a3a0d000000"
//	output:
//	  format: hex
//	log:
//	  level: info
package config
