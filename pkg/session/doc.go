/*
Package session runs one navigation stack per session on behalf of a host.

The Manager is the Integration Shell for multi-session hosts (the HTTP adapter uses it):
it owns the dispatch queue of each session, applies actions through the reducer one at a
time, resolves the visible screen and routes platform back presses through the arbiter.
A ports.DistributedLocker extends the serial guarantee across replicas.
*/
package session
