// Package imaging fetches remote images and composites them into slide
// placeholders.
//
// The flow for one section image is:
//
//	ref --IsValidRef--> Fetcher.Fetch --> Decode --> Compositor.Composite
//
// Fetching is a single attempt with a bounded timeout. Every failure along
// the way (an unsupported scheme, a transport error, undecodable bytes, a
// missing placeholder) is logged and reported as absence, so an image can
// only ever drop out of a deck, never fail it.
//
// [Prefetch] runs the fetch and decode steps for all sections concurrently
// ahead of composition; each section owns one result slot that the image
// slide waits on when it is emitted.
package imaging
