package planner

const restWorkout = "Rest and mobility: 20 min walk + stretch"

type session struct {
	Type    DayType
	Workout string
}

// alternating sessions for even and odd day indexes
type parityPair [2]session

var sportSessions = map[string]parityPair{
	SportBasketball: {
		{Cardio, "Intervals: 8x court sprints, defensive slides, layup drills"},
		{Strength, "Lower body: squats, lunges, calf raises; Core: planks"},
	},
	SportFootball: {
		{Strength, "Power: cleans, squats, bench; Accessory: rows, hamstrings"},
		{Conditioning, "Tempo runs, shuttle, agility ladder, sled pushes"},
	},
	SportTennis: {
		{Skill, "Serve practice, cross-court drills, footwork ladders"},
		{Strength, "Upper body pull/push superset + rotational core"},
	},
	SportGolf: {
		{Mobility, "T-spine rotation, hip mobility, band work, putting"},
		{Strength, "Glute bridges, deadlifts light, anti-rotation core"},
	},
	SportGeneric: {
		{Cardio, "30-40 min Zone 2 + strides"},
		{Strength, "Full body compound lifts + core"},
	},
}

// football position schedules, indexed by day of the plan
var positionSessions = map[string][7]session{
	PositionQuarterback: {
		{Strength, "Lower body: squats, split squats, hamstring curls"},
		{Skill, "Throwing: drop-back footwork, progression reads, 50 accuracy reps"},
		{Strength, "Upper body: landmine press, rows, rotator cuff care"},
		{Rest, "Rest and mobility: shoulder care + 20 min walk"},
		{Conditioning, "Pocket movement, short shuttles, scramble sprints"},
		{Strength, "Total body power: trap bar deadlift, med ball throws, core"},
		{Rest, restWorkout},
	},
	PositionReceiver: {
		{Conditioning, "Route conditioning: 10x full-speed routes, 40s rest"},
		{Strength, "Lower body power: box jumps, RDLs, single-leg squats"},
		{Skill, "Hands and releases: ball drills, press release footwork"},
		{Rest, restWorkout},
		{Cardio, "Speed endurance: 6x100m build-ups + strides"},
		{Strength, "Upper body + core: pull-ups, push press, pallof press"},
		{Rest, restWorkout},
	},
	PositionLinebacker: {
		{Strength, "Heavy lower: back squat, trap bar deadlift, sled drags"},
		{Conditioning, "Pursuit angles, shuttle runs, tackling circuits"},
		{Strength, "Upper body power: bench, rows, neck and grip work"},
		{Rest, restWorkout},
		{Skill, "Read-and-react drills, block shedding, zone drops"},
		{Conditioning, "Hill sprints + change-of-direction cones"},
		{Rest, restWorkout},
	},
	PositionCornerback: {
		{Skill, "Backpedal, hip flips, press coverage footwork"},
		{Strength, "Explosive lower: jump squats, lunges, hamstring work"},
		{Cardio, "Speed work: 8x40 yd sprints, flying 20s"},
		{Rest, restWorkout},
		{Skill, "Ball skills: tip drills, high-point catches, breaks on the ball"},
		{Strength, "Upper body + core: push-ups, rows, anti-rotation core"},
		{Rest, restWorkout},
	},
}

var sportTips = map[string][]string{
	SportBasketball: {
		"Hydrate aggressively before practices",
		"Carb load 1-2h pre-court",
		"Electrolytes during long runs",
	},
	SportFootball: {
		"Prioritize lean protein for recovery",
		"Complex carbs for sustained energy",
		"Omega-3s to manage inflammation",
	},
	SportTennis: {
		"Carbs between sets for quick energy",
		"Banana + isotonic drink mid-session",
		"Protein within 45 minutes post match",
	},
	SportGolf: {
		"Steady hydration every 3 holes",
		"Light snacks to avoid energy dips",
		"Limit alcohol on practice days",
	},
	SportGeneric: {
		"Eat whole foods 80% of the time",
		"Protein in every meal",
		"Sleep 7-9 hours for recovery",
	},
}

var positionTips = map[string][]string{
	PositionQuarterback: {
		"Carb-rich meal 3h before practice",
		"Omega-3s and berries for shoulder recovery",
		"Sip fluids steadily to keep decisions sharp",
	},
	PositionReceiver: {
		"Fast carbs before speed work",
		"Lean protein after every session",
		"Electrolytes for repeated sprints",
	},
	PositionLinebacker: {
		"Higher protein intake to handle contact load",
		"Dense carbs around heavy lifting days",
		"Anti-inflammatory foods for collision recovery",
	},
	PositionCornerback: {
		"Light pre-practice meals to stay quick",
		"Carbs + protein within 30 minutes after sprints",
		"Calcium and vitamin D for bone health",
	},
}
