package repositories

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/visakha-ai/visakha-admin/pkg/models"
)

// Pipeline builders are pure functions so stage shapes can be unit-tested
// without a running database. All of them run against the messages
// collection unless noted otherwise.

// feedbackMatchStage scopes a messages pipeline to messages that carry
// feedback at all, whatever the rating.
func feedbackMatchStage() bson.D {
	return bson.D{{Key: "$match", Value: bson.M{
		"feedback": bson.M{"$exists": true},
	}}}
}

// transcriptStages joins the grouped feedback rows to their conversation and
// reshapes the result. Stages, in order:
//
//	lookup conversations on conversationId (inner join via $unwind),
//	lookup the conversation's membership messages sorted chronologically,
//	lookup users referenced by the User turns (stringified _id match),
//	project the response shape with the per-sender text/content split.
func transcriptStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "conversations",
			"localField":   "_id",
			"foreignField": "conversationId",
			"as":           "conversation",
		}}},
		{{Key: "$unwind", Value: "$conversation"}},

		// Membership is the conversation's messages array, not the
		// conversationId field on messages. Orphaned messages stay out.
		{{Key: "$lookup", Value: bson.M{
			"from": "messages",
			"let":  bson.M{"messageIds": "$conversation.messages"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{
					"$expr": bson.M{"$in": bson.A{"$_id", "$$messageIds"}},
				}},
				bson.M{"$sort": bson.M{"createdAt": 1}},
			},
			"as": "messagesData",
		}}},

		// messages.user holds the stringified users._id, so the join key is
		// $toString on the users side.
		{{Key: "$lookup", Value: bson.M{
			"from": "users",
			"let": bson.M{
				"userIds": bson.M{"$map": bson.M{
					"input": bson.M{"$filter": bson.M{
						"input": "$messagesData",
						"as":    "msg",
						"cond":  bson.M{"$eq": bson.A{"$$msg.sender", models.SenderUser}},
					}},
					"as": "msg",
					"in": "$$msg.user",
				}},
			},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{
					"$expr": bson.M{"$in": bson.A{
						bson.M{"$toString": "$_id"},
						"$$userIds",
					}},
				}},
			},
			"as": "usersData",
		}}},

		{{Key: "$project", Value: bson.M{
			"_id":                "$conversation._id",
			"conversationId":     "$conversation.conversationId",
			"title":              "$conversation.title",
			"createdAt":          "$conversation.createdAt",
			"updatedAt":          "$conversation.updatedAt",
			"latestFeedbackDate": 1,
			"resolved":           "$conversation.resolved",

			"messages": bson.M{"$map": bson.M{
				"input": "$messagesData",
				"as":    "msg",
				"in": bson.M{
					"messageId": "$$msg._id",
					"sender":    "$$msg.sender",
					"createdAt": "$$msg.createdAt",
					"updatedAt": "$$msg.updatedAt",
					"model":     "$$msg.model",
					"feedback":  "$$msg.feedback",

					// Body fields are mutually exclusive by sender; the
					// silent side is an explicit null, never omitted.
					"text": bson.M{"$cond": bson.A{
						bson.M{"$eq": bson.A{"$$msg.sender", models.SenderUser}},
						"$$msg.text",
						nil,
					}},
					"content": bson.M{"$cond": bson.A{
						bson.M{"$ne": bson.A{"$$msg.sender", models.SenderUser}},
						"$$msg.content",
						nil,
					}},

					"user": bson.M{"$cond": bson.A{
						bson.M{"$eq": bson.A{"$$msg.sender", models.SenderUser}},
						bson.M{"$let": bson.M{
							"vars": bson.M{
								"matchedUser": bson.M{"$arrayElemAt": bson.A{
									bson.M{"$filter": bson.M{
										"input": "$usersData",
										"as":    "u",
										"cond": bson.M{"$eq": bson.A{
											bson.M{"$toString": "$$u._id"},
											"$$msg.user",
										}},
									}},
									0,
								}},
							},
							"in": bson.M{
								"_id":      "$$matchedUser._id",
								"name":     "$$matchedUser.name",
								"username": "$$matchedUser.username",
								"email":    "$$matchedUser.email",
							},
						}},
						nil,
					}},
				},
			}},
		}}},
	}
}

// feedbackConversationsPipeline builds the paged feedback-conversation list:
// group messages with feedback by conversation, join and reshape, newest
// feedback first, then skip/limit.
func feedbackConversationsPipeline(skip, limit int64) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		feedbackMatchStage(),
		{{Key: "$group", Value: bson.M{
			"_id":                "$conversationId",
			"latestFeedbackDate": bson.M{"$max": "$updatedAt"},
		}}},
	}
	pipeline = append(pipeline, transcriptStages()...)
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.M{"latestFeedbackDate": -1}}},
		bson.D{{Key: "$skip", Value: skip}},
		bson.D{{Key: "$limit", Value: limit}},
	)
	return pipeline
}

// feedbackConversationCountPipeline counts distinct conversations with
// feedback. It runs independently of the page fetch, so the total can lag
// the page under concurrent writes.
func feedbackConversationCountPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		feedbackMatchStage(),
		{{Key: "$group", Value: bson.M{"_id": "$conversationId"}}},
		{{Key: "$count", Value: "total"}},
	}
}

// feedbackConversationDetailPipeline builds the single-conversation variant:
// same joins, filtered to one conversationId, still requiring at least one
// feedback message.
func feedbackConversationDetailPipeline(conversationID string) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"conversationId": conversationID,
			"feedback":       bson.M{"$exists": true},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":                "$conversationId",
			"latestFeedbackDate": bson.M{"$max": "$updatedAt"},
		}}},
	}
	pipeline = append(pipeline, transcriptStages()...)
	pipeline = append(pipeline, bson.D{{Key: "$limit", Value: 1}})
	return pipeline
}

// negativeRatingFilter matches thumbs-down feedback under both stored
// encodings: the legacy numeric 0 and the string form.
func negativeRatingFilter() bson.M {
	return bson.M{"feedback.rating": bson.M{
		"$in": bson.A{0, models.RatingThumbsDown},
	}}
}

// negativeFeedbackPipeline builds the raw thumbs-down feed: matching
// messages with their conversation joined in, newest first.
func negativeFeedbackPipeline(skip, limit int64) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: negativeRatingFilter()}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "conversations",
			"localField":   "conversationId",
			"foreignField": "conversationId",
			"as":           "conversation",
		}}},
		{{Key: "$unwind", Value: "$conversation"}},
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
	}
}

// exportConversationsPipeline builds the export set: every conversation that
// has at least one feedback message, with its membership messages joined in
// full and sorted chronologically. Runs against the conversations collection.
func exportConversationsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "messages",
			"localField":   "messages",
			"foreignField": "_id",
			"as":           "messagesData",
		}}},
		{{Key: "$match", Value: bson.M{
			"messagesData.feedback": bson.M{"$exists": true},
		}}},
		{{Key: "$project", Value: bson.M{
			"conversationId": 1,
			"title":          1,
			"createdAt":      1,
			"updatedAt":      1,
			"resolved":       1,
			"messages": bson.M{"$sortArray": bson.M{
				"input":  "$messagesData",
				"sortBy": bson.M{"createdAt": 1},
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
	}
}
