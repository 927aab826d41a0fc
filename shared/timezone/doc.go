// Package timezone pins every wall clock reading to the salon's configured zone.
//
// The zone comes from APP_TIMEZONE and is loaded when the package is imported,
// falling back to UTC when it is missing or unknown. Use IANA names such as
// "Asia/Jakarta" or "Europe/London".
//
// Booking dates and start times arrive as separate "2006-01-02" and "15:04"
// strings; Appointment joins them into one instant in the salon zone.
package timezone
