/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called buckets.
  - Each bucket contains only one type of model.
  - It has a primary key, either provided by the caller or allocated from a
    sequence.
  - It may possess one or more secondary indexes (1:1 or 1:N).
  - Easy queries for one and iteration.
*/
package orm
