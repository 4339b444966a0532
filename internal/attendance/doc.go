// Package attendance parses the two attendance export shapes produced by
// Microsoft Teams into model.Meeting values.
//
// Attendance lists are downloaded during a meeting from the participants
// pane. The first data row is the meeting organizer; the organizer's rows
// contribute timestamps but are not counted as participants, and a well
// formed list contains an odd number of organizer rows.
//
// Attendance reports are downloaded after the meeting. They start with an
// irregular preamble; only rows with the configured number of columns are
// part of the table, and rows whose role is the organizer role are not
// counted as participants.
//
// Both shapes are UTF-16 encoded, tab separated. Timestamps are tried
// against an ordered list of layouts because Teams switches between the
// day-first and the US format independently of the host locale.
package attendance
