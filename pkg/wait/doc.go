/*
Package wait implements the bounded-deadline polling used by the
provisioning lifecycle's two network waits (SSH connectivity, cloud-init
completion).

A Poller performs one attempt; WaitFor owns the retry loop, deadline, and
the TimeoutError returned on expiry. Callers build a Poller around
whatever transport they already hold open — TCPPoller for a bare
connectivity probe, CommandPoller around a Runner for anything that needs
to run a command and inspect its exit code.
*/
package wait
