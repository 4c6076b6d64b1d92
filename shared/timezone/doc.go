// Package timezone pins every wall-clock computation to the hotel's timezone.
//
// The zone comes from APP_TIMEZONE (an IANA name such as "Asia/Jakarta") and is
// loaded once when the package is imported. Calendar-day questions, such as
// whether a guest is currently staying or whether a request was resolved
// today, are answered with StartOfDay and Today so that they agree with the
// front desk rather than with the server's clock.
package timezone
