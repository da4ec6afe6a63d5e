package insights

// Copy tables. Placeholders are filled by fill(); every entry must pass the
// copy guard at every variant index. Run `caddie lint-copy` after editing.

var copyM1NoComponents = []string{
	"You shot {score} ({to_par}), {band_phrase} of {avg}.",
	"Final score: {score}, {to_par} for the round. That is {band_phrase} of {avg}.",
	"{score} on the card today ({to_par}), {band_phrase} of {avg}.",
}

var copyM1Mixed = []string{
	"{best} was your strongest area at {best_value} strokes, while {opp_lc} trailed at {opp_value}.",
	"Strokes gained split this round: {best_lc} led at {best_value} and {opp_lc} sat lowest at {opp_value}.",
	"Across {count} measured areas, {best_lc} ranked highest at {best_value} and {opp_lc} lowest at {opp_value}.",
}

var copyM1MixedSingle = []string{
	"{best} was your one measured area this round at {best_value} strokes.",
	"With one measured area, {best_lc} came in at {best_value} strokes.",
	"Strokes gained covered {best_lc} only this round, at {best_value} strokes.",
}

var copyM1Strength = []string{
	"{best} carried this round at {best_value} strokes gained, helping you beat your average.",
	"A better-than-average round, led by {best_lc} at {best_value} strokes gained.",
	"You beat your usual scoring, and {best_lc} did the heavy lifting at {best_value} strokes gained.",
}

var copyM1Neutral = []string{
	"Your measured areas showed no measurable difference from baseline this round.",
	"Every measured area finished level with baseline, so the score came from elsewhere.",
	"Strokes gained was flat across your measured areas this round.",
}

var copyM2NoComponents = []string{
	"The strokes gained breakdown needs recorded stats, so this round is measured by score alone.",
	"No strokes gained areas were measured this round, so the report sticks to your total.",
	"Without measured areas, this summary is based on your score and your recent average.",
}

var copyM2OpportunityWeak = []string{
	"{opp} cost the most at {opp_value} strokes.",
	"The biggest loss came from {opp_lc} at {opp_value} strokes.",
	"{opp} was the costliest area this round at {opp_value} strokes.",
}

var copyM2OpportunityMild = []string{
	"{opp} was your lowest measured area at {opp_value} strokes, within normal range.",
	"No area lost much ground, and {opp_lc} sat lowest at {opp_value} strokes.",
	"{opp} trailed the other areas slightly at {opp_value} strokes.",
}

var copyM2AllZero = []string{
	"Every measured area landed exactly at baseline.",
	"All measured areas came in at 0.0 strokes gained.",
	"None of your measured areas gained or lost strokes.",
}

var copyM2Residual = []string{
	"Most of the scoring swing came from shots outside the measured areas. Residual was {residual} strokes.",
	"The measured areas explain only part of this round. Residual was {residual} strokes.",
	"Shots outside the measured areas moved this score more than any single stat. Residual was {residual} strokes.",
}

var copyM2SingleArea = []string{
	"{best} was the only area measured, so there is no second area to compare against.",
	"Only {best_lc} was measured this round, which leaves nothing to compare it with.",
	"With a single measured area, {best_lc} at {best_value} strokes stands on its own.",
}

// residualSentence is appended to message 2 when the residual is large.
const residualSentence = "Residual was {residual} strokes."

// Focus copy. Every track-* entry starts with "Track"; the all-recorded
// entries never mention tracking.

var copyFocusTrackAll = []string{
	"Track fairways hit, greens in regulation, putts, and penalties so the next report shows where strokes go.",
	"Track all four stats on every hole: fairways hit, greens in regulation, putts, and penalties.",
	"Track fairways hit, greens in regulation, putts, and penalties to get a full strokes gained breakdown.",
}

var copyFocusTrack = []string{
	"Track {missing} to complete your strokes gained picture.",
	"Track {missing} on every hole so each part of your game is measured.",
	"Track {missing} so the next report covers every area.",
}

var copyFocusTrackTip = []string{
	"Track {missing} to complete the picture. {tip}",
	"Track {missing} on every hole. {tip}",
	"Track {missing} as well. {tip}",
}

var copyFocusAction = []string{
	"{opp} cost the most at {opp_value} strokes. {tip}",
	"Put your practice into {opp_lc}. {tip}",
	"{tip}",
}

var copyFocusMaintain = []string{
	"{opp} trailed your other areas at {opp_value} strokes. {tip}",
	"Give {opp_lc} ten extra practice minutes, since it sat lowest at {opp_value} strokes.",
	"{opp} was your lowest area and stayed within normal range. {tip}",
}

var copyFocusGeneral = []string{
	"Keep the same pre-shot routine on every shot and play to the safe side of each target.",
	"Commit to one target on every shot and repeat your routine from the first tee to the last green.",
	"Build the round around steady tempo on every swing and a clear target on every hole.",
}

// componentTips are concrete practice actions per component.
var componentTips = map[ComponentName][]string{
	OffTee: {
		"Pick a specific fairway target on every tee shot and commit to it before you swing.",
		"Take the club you hit straightest on the tight holes and play for the fairway.",
		"Before each drive, pick the widest side of the fairway and aim there.",
	},
	Approach: {
		"Aim approach shots at the center of the green and take enough club to carry the front edge.",
		"Play approach shots to the fat part of the green instead of firing at flags.",
		"Check the yardage to the middle of the green on every approach and club up when in doubt.",
	},
	Putting: {
		"Spend ten minutes on lag putts from 30 feet before the round to cut down three-putts.",
		"Hit ten putts from six feet before you tee off and keep the same routine on every green.",
		"Focus on pace on long putts so the second putt is inside three feet.",
	},
	Penalties: {
		"Play away from water and out-of-bounds, even if it leaves a longer next shot.",
		"When trouble is in range, take the club that stays short of it.",
		"Aim at the side of the hole away from hazards and accept a longer putt.",
	},
}

// Onboarding copy is fixed; one entry per outcome and slot.
var onboardingCopy = map[string][3]string{
	OutcomeOB1: {
		"Round 1 is logged: {score} ({to_par}).",
		"Two more rounds are needed before full insights unlock.",
		NextRoundPrefix + "Track fairways, greens, putts, and penalties on every hole.",
	},
	OutcomeOB2Better: {
		"Round 2 came in at {score} ({to_par}), {diff} better than your last round.",
		"One more round is needed before full insights unlock.",
		NextRoundPrefix + "Keep tracking fairways, greens, putts, and penalties on every hole.",
	},
	OutcomeOB2Same: {
		"Round 2 came in at {score} ({to_par}), level with your last round.",
		"One more round is needed before full insights unlock.",
		NextRoundPrefix + "Keep tracking fairways, greens, putts, and penalties on every hole.",
	},
	OutcomeOB2Worse: {
		"Round 2 came in at {score} ({to_par}), {diff} higher than your last round.",
		"One more round is needed before full insights unlock.",
		NextRoundPrefix + "Keep tracking fairways, greens, putts, and penalties on every hole.",
	},
	OutcomeOB3Better: {
		"Round 3 came in at {score} ({to_par}), {diff} better than your last round.",
		"Your scoring baseline is now set from your first three rounds.",
		NextRoundPrefix + "Full post-round insights start from your next round, so keep tracking fairways, greens, putts, and penalties.",
	},
	OutcomeOB3Same: {
		"Round 3 came in at {score} ({to_par}), level with your last round.",
		"Your scoring baseline is now set from your first three rounds.",
		NextRoundPrefix + "Full post-round insights start from your next round, so keep tracking fairways, greens, putts, and penalties.",
	},
	OutcomeOB3Worse: {
		"Round 3 came in at {score} ({to_par}), {diff} higher than your last round.",
		"Your scoring baseline is now set from your first three rounds.",
		NextRoundPrefix + "Full post-round insights start from your next round, so keep tracking fairways, greens, putts, and penalties.",
	},
}

// onboardingNoPrevious replaces message 1 when the previous score is unknown.
const onboardingNoPrevious = "Round {round} is logged: {score} ({to_par})."

// CopyTables returns every steady-state copy table keyed by a descriptive
// name, for linting.
func CopyTables() map[string][]string {
	tables := map[string][]string{
		"m1_no_components":    copyM1NoComponents,
		"m1_mixed":            copyM1Mixed,
		"m1_mixed_single":     copyM1MixedSingle,
		"m1_strength":         copyM1Strength,
		"m1_neutral":          copyM1Neutral,
		"m2_no_components":    copyM2NoComponents,
		"m2_opportunity_weak": copyM2OpportunityWeak,
		"m2_opportunity_mild": copyM2OpportunityMild,
		"m2_all_zero":         copyM2AllZero,
		"m2_residual":         copyM2Residual,
		"m2_single_area":      copyM2SingleArea,
		"focus_track_all":     copyFocusTrackAll,
		"focus_track":         copyFocusTrack,
		"focus_track_tip":     copyFocusTrackTip,
		"focus_action":        copyFocusAction,
		"focus_maintain":      copyFocusMaintain,
		"focus_general":       copyFocusGeneral,
		"residual_sentence":   {residualSentence},
		"onboarding_no_prev":  {onboardingNoPrevious},
	}
	for name, tips := range componentTips {
		tables["tips_"+string(name)] = tips
	}
	for code, msgs := range onboardingCopy {
		tables["onboarding_"+code] = msgs[:]
	}
	return tables
}
