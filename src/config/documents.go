package config

// DefaultDocuments returns the built-in role table in processing order.
// The master document comes first so its identities are known before any
// relational document is sanitized.
func DefaultDocuments() []DocumentConfig {
	return []DocumentConfig{
		{Input: "getmembers.txt", Output: "members.json", Strategy: "master"},

		{Input: "getPatrols.txt", Output: "patrols.json", Strategy: "relational"},
		{Input: "getEvents.txt", Output: "events.json", Strategy: "relational"},
		{Input: "getFlexiRecordData.txt", Output: "flexi_data.json", Strategy: "relational"},
		{Input: "getBadgeByPerson.txt", Output: "badge_assignments.json", Strategy: "relational"},
		{Input: "getEventAttendance.txt", Output: "attendance.json", Strategy: "relational"},
		{Input: "getEventDetails.txt", Output: "event_details.json", Strategy: "relational"},
		{Input: "getEventSummary.txt", Output: "event_summary.json", Strategy: "relational"},
		{Input: "getEventSummary2.txt", Output: "event_summary_2.json", Strategy: "relational"},

		{Input: "getFlexiRecordStructure.txt", Output: "flexi_structure.json", Strategy: "passthrough"},
		{Input: "getFlexiRecords.txt", Output: "flexi_definitions.json", Strategy: "passthrough"},
		{Input: "getBadgeRecord.txt", Output: "badge_records.json", Strategy: "passthrough"},
		{Input: "getBadges.txt", Output: "badges.json", Strategy: "passthrough"},

		{Input: "getStartupData.txt", Output: "startup_data.json", Strategy: "blind"},
		{Input: "getStartupConfig.txt", Output: "startup_config.json", Strategy: "blind"},

		{Input: "memberImage.txt", Output: "images.json", Strategy: "ignored"},
	}
}

// DefaultIgnore lists files that live next to the captures but are never
// processed or reported.
func DefaultIgnore() []string {
	return []string{"README.md"}
}
