// Package tlsroots assembles certificate trust for VoltKV.
//
// Two concerns live here. Pool collects root certificates (system
// store plus custom CAs) and builds client tls.Configs from them;
// voltkv-cli uses it for --tls-ca. Watcher keeps a server certificate
// pair loaded and hot-swaps it when the files change, so the TLS
// listener serves rotated certificates without a restart.
package tlsroots
