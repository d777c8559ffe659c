// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package aggregator

// commonNonAuthors holds capitalized words that recognizers and patterns
// routinely return as names. Matching is exact and case-sensitive.
var commonNonAuthors = map[string]bool{
	// determiners, conjunctions, adverbs that open sentences
	"The": true, "This": true, "That": true, "These": true, "Those": true,
	"But": true, "And": true, "Or": true, "For": true, "Thus": true,
	"Here": true, "There": true, "Then": true, "When": true, "What": true,
	"Where": true, "Why": true, "How": true, "Yet": true, "So": true,
	"If": true, "As": true, "In": true, "On": true, "At": true,
	"One": true, "All": true, "Some": true, "Such": true, "Even": true,
	// pronouns
	"They": true, "He": true, "She": true, "It": true, "We": true,
	"You": true, "His": true, "Her": true, "Their": true, "Our": true,
	"My": true, "Its": true, "Him": true, "Them": true,
	// generic nouns
	"Art": true, "Time": true, "Man": true, "Men": true, "Woman": true,
	"Women": true, "Life": true, "Death": true, "God": true, "Love": true,
	"World": true, "Nature": true, "History": true, "Truth": true, "Mind": true,
	"Book": true, "Chapter": true, "Part": true, "Preface": true, "Introduction": true,
	"Notes": true, "Index": true, "Contents": true,
	// interjections and titles that stand alone
	"Yes": true, "No": true, "Oh": true, "Mr": true, "Mrs": true,
	"Ms": true, "Dr": true, "Sir": true, "Lord": true, "Lady": true,
}

// IsDenied reports whether name is on the fixed deny-list
func IsDenied(name string) bool {
	return commonNonAuthors[name]
}
