package advisory

import (
	"fmt"
	"strings"

	"github.com/sebasr/ecosense-service/internal/models"
)

// BuildPrompt renders the instruction sent to the hosted model
func BuildPrompt(r models.Reading, activityLevel int) string {
	var b strings.Builder
	b.WriteString("Act as an environmental scientist. Analyze this sensor data:\n")
	fmt.Fprintf(&b, "AQI: %d\n", r.AQI)
	fmt.Fprintf(&b, "CO2: %.0f ppm\n", r.CO2)
	fmt.Fprintf(&b, "PM2.5: %.1f µg/m³\n", r.PM25)
	fmt.Fprintf(&b, "PM10: %.1f µg/m³\n", r.PM10)
	fmt.Fprintf(&b, "Temp: %.1f°C\n", r.Temperature)
	fmt.Fprintf(&b, "Humidity: %.1f%%\n", r.Humidity)
	b.WriteString("\n")
	fmt.Fprintf(&b, "User Scenario Adjustment: The user has set the \"Local Event Intensity\" (Traffic/Industry) to %d/100 (where 50 is normal baseline).\n", activityLevel)
	b.WriteString("- If > 50: assume increased emissions nearby.\n")
	b.WriteString("- If < 50: assume reduced emissions (e.g. holiday, night).\n")
	b.WriteString("\n")
	b.WriteString("Provide a concise 3-sentence health advisory and prediction for the next 24 hours considering this scenario.\n")
	b.WriteString("Do not use markdown formatting.")
	return b.String()
}
