// Package models defines the wire types exchanged with the knowledge backend
// and a few pure helpers over them (pagination arithmetic, metadata parsing,
// chat history pairing, prompt ordering).
package models
