/*
Package session serializes access to persisted walkthrough sessions.

A Manager pairs a ports.StateStore with per-session in-process mutexes and,
optionally, a ports.DistributedLocker so that several replicas serving the same
session never interleave a read-modify-write cycle. Locks are reference counted
and dropped as soon as no caller holds them.
*/
package session
