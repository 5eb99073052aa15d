// Package engine turns a space's weekly schedule, its dated exceptions and the bookings already
// held against it into bookable windows, and prices and sizes a chosen window.
//
// Everything here is pure. Times of day are handled as minutes since local midnight and rendered
// as "HH:MM"; "24:00" is accepted as the end-of-day boundary. All intervals are half-open.
package engine
