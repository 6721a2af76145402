// package radio implements the internet-radio player core: an Icecast
// status-document parser, a fixed-interval metadata poller, and the bounded
// now-playing history with duplicate suppression.
package radio
