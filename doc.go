// Package agentkit provides the core types for tool-augmented LLM
// conversations: a role-tagged message model, chat request/response and
// streaming chunk types, the Provider capability interface implemented
// by backend adapters, and a typed error taxonomy.
//
// Higher-level behavior lives in subpackages:
//
//   - agent: the multi-step execution loop with termination strategies
//   - tool: the type-safe tool routing system
//   - provider/anthropic, provider/openai: backend adapters
//   - retry: retry middleware for transient provider errors
package agentkit
