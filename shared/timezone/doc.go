// Package timezone provides timezone utilities for the application.
//
// Two kinds of location exist:
//
//  1. The application timezone, configured via APP_TIMEZONE and used for metadata timestamps:
//     now := timezone.Now()
//     formatted := timezone.Format(time.Now(), "2006-01-02 15:04:05")
//
//  2. The timezone of an individual space, an IANA name stored with the space. Schedules are civil
//     time in that zone, so every comparison against an HH:MM value goes through it:
//     loc := timezone.Location(space.Timezone)
//     today := timezone.Date(timezone.Now(), loc)     // "2024-01-01"
//     minute := timezone.MinuteOfDay(now, loc)        // 0..1439
//
// Unknown names fall back to the application timezone and are logged once.
package timezone
