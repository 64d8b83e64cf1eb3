package outbox

const sessionLoggedSchema = `{
  "type": "object",
  "title": "SessionLogged",
  "properties": {
    "session_id": {"type": "string"},
    "user_id": {"type": "string"},
    "workout_type": {"type": "string"},
    "date": {"type": "string", "format": "date-time"},
    "duration_min": {"type": "integer"},
    "program_id": {"type": "string"}
  },
  "required": ["session_id", "user_id", "workout_type", "date", "duration_min"],
  "additionalProperties": false
}`

const pointsAwardedSchema = `{
  "type": "object",
  "title": "PointsAwarded",
  "properties": {
    "user_id": {"type": "string"},
    "week_start": {"type": "string", "format": "date-time"},
    "points": {"type": "integer"},
    "balance": {"type": "integer"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["user_id", "week_start", "points", "balance", "occurred_at"],
  "additionalProperties": false
}`

const goalCompletedSchema = `{
  "type": "object",
  "title": "GoalCompleted",
  "properties": {
    "goal_id": {"type": "string"},
    "user_id": {"type": "string"},
    "reward_id": {"type": "string"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["goal_id", "user_id", "occurred_at"],
  "additionalProperties": false
}`

const rewardUnlockedSchema = `{
  "type": "object",
  "title": "RewardUnlocked",
  "properties": {
    "user_reward_id": {"type": "string"},
    "user_id": {"type": "string"},
    "reward_id": {"type": "string"},
    "points_cost": {"type": "integer"},
    "unlocked_at": {"type": "string", "format": "date-time"}
  },
  "required": ["user_reward_id", "user_id", "reward_id", "points_cost", "unlocked_at"],
  "additionalProperties": false
}`
