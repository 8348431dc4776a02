package pipeline

// speechCodes maps the three-digit status codes to their canonical phrases.
// A speech-optimized drone may only emit these.
var speechCodes = map[string]string{
	"050": "Statement",
	"051": "Commentary",
	"097": "Status :: Online and operational.",
	"098": "Status :: Going offline.",
	"109": "Error :: Unable to process request.",
	"122": "Statement :: You are cute.",
	"123": "Response :: Compliment appreciated, you are cute as well.",
	"200": "Response :: Affirmative.",
	"221": "Response :: Option one.",
	"222": "Response :: Option two.",
	"250": "Response",
	"301": "Mantra :: Obey the Hive.",
	"303": "Mantra :: It obeys the Hive Mxtress.",
	"304": "Mantra :: It is just a drone.",
	"306": "Mantra :: Reciting.",
	"350": "Status",
	"416": "Error :: Request not understood.",
	"421": "Error :: Drone unavailable.",
	"500": "Response :: Negative.",
	"504": "Error :: Obedience compromised.",
}
